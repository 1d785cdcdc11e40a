package ipc

import (
	"time"

	"github.com/custodia-labs/sercha-search-provider/internal/core/domain"
)

// Method names.
const (
	MethodGetInitialResultSet   = "GetInitialResultSet"
	MethodGetSubsearchResultSet = "GetSubsearchResultSet"
	MethodGetResultMetas        = "GetResultMetas"
	MethodActivateResult        = "ActivateResult"
	MethodLaunchSearch          = "LaunchSearch"
	MethodStatusGet             = "status.get"
)

// SearchParams are the params of GetInitialResultSet and LaunchSearch.
type SearchParams struct {
	Terms []string `json:"terms"`
}

// SubsearchParams are the params of GetSubsearchResultSet.
type SubsearchParams struct {
	PreviousResults []string `json:"previous_results"`
	Terms           []string `json:"terms"`
}

// ResultSet is the result of both result set methods.
type ResultSet struct {
	Results []string `json:"results"`
}

// MetasParams are the params of GetResultMetas.
type MetasParams struct {
	Identifiers []string `json:"identifiers"`
}

// MetasResult is the result of GetResultMetas.
type MetasResult struct {
	Metas []Meta `json:"metas"`
}

// ActivateParams are the params of ActivateResult.
type ActivateParams struct {
	Identifier string   `json:"identifier"`
	Terms      []string `json:"terms"`
}

// Meta is the wire form of domain.ResultMeta. At most one of IconName,
// Thumbnail and IconData is set.
type Meta struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	IconName  string    `json:"gicon,omitempty"`
	Thumbnail string    `json:"thumbnail,omitempty"`
	IconData  *IconData `json:"icon_data,omitempty"`
}

// IconData is the wire form of domain.PixelBuffer. Data is base64 encoded.
type IconData struct {
	Width         int    `json:"width"`
	Height        int    `json:"height"`
	Rowstride     int    `json:"rowstride"`
	HasAlpha      bool   `json:"has_alpha"`
	BitsPerSample int    `json:"bits_per_sample"`
	Channels      int    `json:"channels"`
	Data          []byte `json:"data"`
}

// StatusResponse is the result of status.get.
type StatusResponse struct {
	PID         int       `json:"pid"`
	Version     string    `json:"version,omitempty"`
	StartedAt   time.Time `json:"started_at"`
	Requests    uint64    `json:"requests"`
	ActiveHolds int       `json:"active_holds"`
}

// EncodeMeta converts a result meta to its wire form.
func EncodeMeta(m domain.ResultMeta) Meta {
	out := Meta{ID: m.ID, Name: m.Name}

	switch m.Icon.Kind {
	case domain.IconThemed:
		out.IconName = m.Icon.Name
	case domain.IconThumbnail:
		out.Thumbnail = m.Icon.Path
	case domain.IconPixels:
		if px := m.Icon.Pixels; px != nil {
			out.IconData = &IconData{
				Width:         px.Width,
				Height:        px.Height,
				Rowstride:     px.Rowstride,
				HasAlpha:      px.HasAlpha,
				BitsPerSample: px.BitsPerSample,
				Channels:      px.Channels,
				Data:          px.Data,
			}
		}
	}

	return out
}

// Decode converts the wire form back to a result meta.
func (m Meta) Decode() domain.ResultMeta {
	out := domain.ResultMeta{ID: m.ID, Name: m.Name}

	switch {
	case m.IconName != "":
		out.Icon = domain.ThemedIcon(m.IconName)
	case m.Thumbnail != "":
		out.Icon = domain.ThumbnailIcon(m.Thumbnail)
	case m.IconData != nil:
		out.Icon = domain.PixelIcon(&domain.PixelBuffer{
			Width:         m.IconData.Width,
			Height:        m.IconData.Height,
			Rowstride:     m.IconData.Rowstride,
			HasAlpha:      m.IconData.HasAlpha,
			BitsPerSample: m.IconData.BitsPerSample,
			Channels:      m.IconData.Channels,
			Data:          m.IconData.Data,
		})
	}

	return out
}
