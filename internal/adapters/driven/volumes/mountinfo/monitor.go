// Package mountinfo enumerates drives, volumes and mounts on Linux from
// /proc/self/mountinfo, /dev/disk/by-label and sysfs.
//
// Only user-visible mounts are reported: those under the configured roots
// (by default /media, /run/media and /mnt) and network filesystems.
package mountinfo

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driven"
)

// Ensure Monitor implements the interface.
var _ driven.VolumeMonitor = (*Monitor)(nil)

// Default system locations.
const (
	DefaultMountInfoPath = "/proc/self/mountinfo"
	DefaultByLabelDir    = "/dev/disk/by-label"
	DefaultSysBlockDir   = "/sys/class/block"
)

// DefaultRoots are the directories user-visible mounts live under.
var DefaultRoots = []string{"/media", "/run/media", "/mnt"}

var networkTypes = map[string]bool{
	"nfs":         true,
	"nfs4":        true,
	"cifs":        true,
	"smb3":        true,
	"fuse.sshfs":  true,
	"fuse.rclone": true,
	"davfs":       true,
}

// Monitor reads mount state on each call; nothing is cached.
type Monitor struct {
	MountInfoPath string
	ByLabelDir    string
	SysBlockDir   string
	Roots         []string
}

// NewMonitor creates a monitor using the system locations.
func NewMonitor() *Monitor {
	return &Monitor{
		MountInfoPath: DefaultMountInfoPath,
		ByLabelDir:    DefaultByLabelDir,
		SysBlockDir:   DefaultSysBlockDir,
		Roots:         DefaultRoots,
	}
}

// ConnectedDrives returns drives that hold at least one visible volume.
func (m *Monitor) ConnectedDrives(ctx context.Context) ([]domain.Drive, error) {
	snap, err := m.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.drives, nil
}

// Volumes returns every visible block-device volume.
func (m *Monitor) Volumes(ctx context.Context) ([]domain.Volume, error) {
	snap, err := m.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.volumes, nil
}

// Mounts returns every visible mount, including shadowed ones.
func (m *Monitor) Mounts(ctx context.Context) ([]domain.Mount, error) {
	snap, err := m.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snap.mounts, nil
}

// entry is one line of mountinfo.
type entry struct {
	mountPoint string
	fsType     string
	source     string
}

type snapshot struct {
	drives  []domain.Drive
	volumes []domain.Volume
	mounts  []domain.Mount
}

func (m *Monitor) snapshot(ctx context.Context) (snapshot, error) {
	if err := ctx.Err(); err != nil {
		return snapshot{}, err
	}

	data, err := os.ReadFile(m.MountInfoPath)
	if err != nil {
		return snapshot{}, fmt.Errorf("read mountinfo: %w", err)
	}
	entries, err := parseMountInfo(data)
	if err != nil {
		return snapshot{}, err
	}

	labels := m.labels()

	// A later mount on the same point hides the earlier ones.
	last := make(map[string]int, len(entries))
	for i, e := range entries {
		last[e.mountPoint] = i
	}

	var snap snapshot
	driveIndex := make(map[string]int)
	for i, e := range entries {
		if !m.visible(e) {
			continue
		}

		mount := domain.Mount{
			Name:     filepath.Base(e.mountPoint),
			Location: domain.FileURI(e.mountPoint),
			Shadowed: last[e.mountPoint] != i,
		}

		if !isBlockDevice(e.source) {
			snap.mounts = append(snap.mounts, mount)
			continue
		}

		device := resolveDevice(e.source)
		if label, ok := labels[device]; ok {
			mount.Name = label
		}
		mount.VolumeID = device
		snap.mounts = append(snap.mounts, mount)

		mountCopy := mount
		volume := domain.Volume{ID: device, Name: mount.Name, Mount: &mountCopy}
		if disk := m.parentDisk(device); disk != "" {
			volume.DriveID = disk
			idx, ok := driveIndex[disk]
			if !ok {
				idx = len(snap.drives)
				driveIndex[disk] = idx
				snap.drives = append(snap.drives, domain.Drive{ID: disk, Name: m.driveName(disk)})
			}
			snap.drives[idx].Volumes = append(snap.drives[idx].Volumes, volume)
		}
		snap.volumes = append(snap.volumes, volume)
	}

	return snap, nil
}

func (m *Monitor) visible(e entry) bool {
	if networkTypes[e.fsType] {
		return true
	}
	for _, root := range m.Roots {
		if strings.HasPrefix(e.mountPoint, strings.TrimRight(root, "/")+"/") {
			return true
		}
	}
	return false
}

// labels maps resolved device paths to filesystem labels.
func (m *Monitor) labels() map[string]string {
	labels := make(map[string]string)
	entries, err := os.ReadDir(m.ByLabelDir)
	if err != nil {
		return labels
	}
	for _, de := range entries {
		target, err := os.Readlink(filepath.Join(m.ByLabelDir, de.Name()))
		if err != nil {
			continue
		}
		if !filepath.IsAbs(target) {
			target = filepath.Join(m.ByLabelDir, target)
		}
		labels[filepath.Clean(target)] = unescape(de.Name())
	}
	return labels
}

// parentDisk returns the whole-disk device of a partition, or "" if the
// device is not a partition.
func (m *Monitor) parentDisk(device string) string {
	name := filepath.Base(device)
	sysPath, err := filepath.EvalSymlinks(filepath.Join(m.SysBlockDir, name))
	if err != nil {
		return ""
	}
	if _, err := os.Stat(filepath.Join(sysPath, "partition")); err != nil {
		return ""
	}
	return "/dev/" + filepath.Base(filepath.Dir(sysPath))
}

func (m *Monitor) driveName(disk string) string {
	model, err := os.ReadFile(filepath.Join(m.SysBlockDir, filepath.Base(disk), "device", "model"))
	if err == nil {
		if name := strings.TrimSpace(string(model)); name != "" {
			return name
		}
	}
	return filepath.Base(disk)
}

func isBlockDevice(source string) bool {
	return strings.HasPrefix(source, "/dev/")
}

func resolveDevice(source string) string {
	if resolved, err := filepath.EvalSymlinks(source); err == nil {
		return resolved
	}
	return source
}

// parseMountInfo parses the format documented in proc(5):
// "id parent major:minor root mountpoint options [optional...] - fstype source superopts".
func parseMountInfo(data []byte) ([]entry, error) {
	var entries []entry

	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		sep := -1
		for i := 6; i < len(fields); i++ {
			if fields[i] == "-" {
				sep = i
				break
			}
		}
		if len(fields) < 5 || sep < 0 || sep+2 >= len(fields) {
			return nil, fmt.Errorf("mountinfo line %d: malformed", lineNo)
		}

		entries = append(entries, entry{
			mountPoint: unescape(fields[4]),
			fsType:     fields[sep+1],
			source:     unescape(fields[sep+2]),
		})
	}
	return entries, scanner.Err()
}

// unescape decodes the octal escapes (\040 for space) used by mountinfo
// and udev link names.
func unescape(s string) string {
	if !strings.Contains(s, "\\") {
		return s
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+3 < len(s) {
			if v, err := strconv.ParseUint(s[i+1:i+4], 8, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		if s[i] == '\\' && i+3 < len(s) && s[i+1] == 'x' {
			if v, err := strconv.ParseUint(s[i+2:i+4], 16, 8); err == nil {
				b.WriteByte(byte(v))
				i += 3
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
