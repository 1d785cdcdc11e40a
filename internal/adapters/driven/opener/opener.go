// Package opener opens URIs with the desktop's default handler.
package opener

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driven"
)

// Ensure Opener implements the interface.
var _ driven.URIOpener = (*Opener)(nil)

const (
	osDarwin  = "darwin"
	osLinux   = "linux"
	osWindows = "windows"
)

// Opener launches an external command with the URI as its last argument.
type Opener struct {
	command []string
}

// NewOpener picks the platform's launcher: gio or xdg-open on Linux,
// open on macOS.
func NewOpener() (*Opener, error) {
	switch runtime.GOOS {
	case osDarwin:
		return NewCommandOpener("open"), nil
	case osLinux:
		if _, err := exec.LookPath("gio"); err == nil {
			return NewCommandOpener("gio", "open"), nil
		}
		if _, err := exec.LookPath("xdg-open"); err == nil {
			return NewCommandOpener("xdg-open"), nil
		}
		return nil, errors.New("no URI launcher found (install gio or xdg-open)")
	case osWindows:
		return NewCommandOpener("rundll32", "url.dll,FileProtocolHandler"), nil
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// NewCommandOpener creates an opener running command followed by the URI.
func NewCommandOpener(command ...string) *Opener {
	return &Opener{command: command}
}

// Open launches the default handler for uri.
// Local files that do not exist fail with domain.ErrNotFound without
// running the launcher.
func (o *Opener) Open(ctx context.Context, uri string) error {
	if len(o.command) == 0 {
		return fmt.Errorf("%w: no launcher configured", domain.ErrActivationFailed)
	}
	if path, err := domain.PathFromURI(uri); err == nil {
		if _, err := os.Stat(path); err != nil {
			return fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
	}

	args := append(append([]string(nil), o.command[1:]...), uri)
	cmd := exec.CommandContext(ctx, o.command[0], args...)
	output, err := cmd.CombinedOutput()
	if err != nil {
		if msg := strings.TrimSpace(string(output)); msg != "" {
			return fmt.Errorf("%s: %w: %s", o.command[0], err, msg)
		}
		return fmt.Errorf("%s: %w", o.command[0], err)
	}
	return nil
}
