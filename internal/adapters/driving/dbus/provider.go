package dbus

import (
	"context"
	"time"

	"github.com/godbus/dbus/v5"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
	"github.com/custodia-labs/sercha-search-provider/internal/core/ports/driving"
	"github.com/custodia-labs/sercha-search-provider/internal/logger"
)

// InterfaceName is the D-Bus interface the shell calls.
const InterfaceName = "org.gnome.Shell.SearchProvider2"

// Meta dictionary keys understood by the shell.
const (
	metaID       = "id"
	metaName     = "name"
	metaGIcon    = "gicon"
	metaIconData = "icon-data"
)

// iconData is the (iiibiiay) icon-data structure.
type iconData struct {
	Width         int32
	Height        int32
	Rowstride     int32
	HasAlpha      bool
	BitsPerSample int32
	Channels      int32
	Data          []byte
}

// searchProvider2 is the object exported on the bus. Every exported method
// becomes a D-Bus method, so it carries nothing else.
type searchProvider2 struct {
	provider driving.SearchProvider
	ctx      func() context.Context
}

// GetInitialResultSet implements the SearchProvider2 method of the same name.
func (p *searchProvider2) GetInitialResultSet(terms []string) ([]string, *dbus.Error) {
	start := time.Now()
	ids, err := p.provider.GetInitialResultSet(p.ctx(), terms)
	if err != nil {
		logger.Warn("dbus: GetInitialResultSet: %v", err)
	}
	logger.Elapsed("dbus: GetInitialResultSet", start)
	return nonNil(ids), nil
}

// GetSubsearchResultSet implements the SearchProvider2 method of the same name.
func (p *searchProvider2) GetSubsearchResultSet(previous, terms []string) ([]string, *dbus.Error) {
	start := time.Now()
	ids, err := p.provider.GetSubsearchResultSet(p.ctx(), previous, terms)
	if err != nil {
		logger.Warn("dbus: GetSubsearchResultSet: %v", err)
	}
	logger.Elapsed("dbus: GetSubsearchResultSet", start)
	return nonNil(ids), nil
}

// GetResultMetas implements the SearchProvider2 method of the same name.
func (p *searchProvider2) GetResultMetas(ids []string) ([]map[string]dbus.Variant, *dbus.Error) {
	metas, err := p.provider.GetResultMetas(p.ctx(), ids)
	if err != nil {
		logger.Warn("dbus: GetResultMetas: %v", err)
	}
	return encodeMetas(metas), nil
}

// ActivateResult implements the SearchProvider2 method of the same name.
func (p *searchProvider2) ActivateResult(id string, terms []string, _ uint32) *dbus.Error {
	p.provider.ActivateResult(p.ctx(), id, terms)
	return nil
}

// LaunchSearch implements the SearchProvider2 method of the same name.
func (p *searchProvider2) LaunchSearch(terms []string, _ uint32) *dbus.Error {
	p.provider.LaunchSearch(p.ctx(), terms)
	return nil
}

func encodeMetas(metas []domain.ResultMeta) []map[string]dbus.Variant {
	out := make([]map[string]dbus.Variant, 0, len(metas))
	for _, m := range metas {
		out = append(out, encodeMeta(m))
	}
	return out
}

func encodeMeta(m domain.ResultMeta) map[string]dbus.Variant {
	entry := map[string]dbus.Variant{
		metaID:   dbus.MakeVariant(m.ID),
		metaName: dbus.MakeVariant(m.Name),
	}

	switch m.Icon.Kind {
	case domain.IconThemed, domain.IconThumbnail:
		entry[metaGIcon] = dbus.MakeVariant(m.Icon.Token())
	case domain.IconPixels:
		if px := m.Icon.Pixels; px != nil {
			entry[metaIconData] = dbus.MakeVariant(iconData{
				Width:         int32(px.Width),
				Height:        int32(px.Height),
				Rowstride:     int32(px.Rowstride),
				HasAlpha:      px.HasAlpha,
				BitsPerSample: int32(px.BitsPerSample),
				Channels:      int32(px.Channels),
				Data:          px.Data,
			})
		}
	}

	return entry
}

func nonNil(ids []string) []string {
	if ids == nil {
		return []string{}
	}
	return ids
}
