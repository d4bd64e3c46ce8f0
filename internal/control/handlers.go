package control

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/brightpage/docscan/internal/enhance"
	"github.com/brightpage/docscan/internal/session"
)

// methods lists every supported RPC method, reported by initialize so
// clients can discover the surface without probing.
var methods = []string{
	"initialize",
	"session/start",
	"detection/latest",
	"page/capture",
	"page/remove",
	"session/pages",
	"session/finalize",
	"session/cancel",
	"ping",
}

// pageSummary is the wire form of one captured page.
type pageSummary struct {
	Index      int       `json:"index"`
	ID         string    `json:"id"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Mode       string    `json:"mode"`
	FullFrame  bool      `json:"full_frame"`
	CapturedAt time.Time `json:"captured_at"`
}

func summarize(index int, p *session.Page) pageSummary {
	bounds := p.Image.Bounds()
	return pageSummary{
		Index:      index,
		ID:         p.ID.String(),
		Width:      bounds.Dx(),
		Height:     bounds.Dy(),
		Mode:       string(p.Settings.Mode),
		FullFrame:  p.FullFrame,
		CapturedAt: p.CapturedAt,
	}
}

// handleInitialize responds with the server identity and session handle.
func (s *Server) handleInitialize(req *Request) *Response {
	return s.result(req.ID, map[string]interface{}{
		"server": map[string]interface{}{
			"name":    "docscan",
			"version": s.version,
		},
		"session_id": s.ctrl.SessionID(),
		"methods":    methods,
	})
}

func (s *Server) handleSessionStart(req *Request) *Response {
	if err := s.ctrl.Start(context.Background()); err != nil {
		return s.operationError(req.ID, err)
	}
	return s.result(req.ID, map[string]interface{}{
		"session_id": s.ctrl.SessionID(),
		"running":    true,
	})
}

func (s *Server) handleDetectionLatest(req *Request) *Response {
	result := map[string]interface{}{
		"metrics": s.ctrl.Metrics(),
	}
	det, ok := s.ctrl.Latest()
	result["found"] = ok
	if ok {
		result["detection"] = det
	}
	return s.result(req.ID, result)
}

type pageCaptureParams struct {
	// Settings overrides the controller defaults for this capture only.
	Settings *enhance.Settings `json:"settings"`
}

func (s *Server) handlePageCapture(req *Request) *Response {
	var params pageCaptureParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return s.invalidParams(req.ID, err)
		}
	}

	var settings enhance.Settings
	if params.Settings != nil {
		settings = *params.Settings
	}

	info, err := s.ctrl.CapturePage(context.Background(), settings)
	if err != nil {
		return s.operationError(req.ID, err)
	}
	return s.result(req.ID, info)
}

type pageRemoveParams struct {
	Index *int `json:"index"`
}

func (s *Server) handlePageRemove(req *Request) *Response {
	if len(req.Params) == 0 {
		return s.invalidParams(req.ID, errors.New("missing required field: index"))
	}
	var params pageRemoveParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.invalidParams(req.ID, err)
	}
	if params.Index == nil {
		return s.invalidParams(req.ID, errors.New("missing required field: index"))
	}

	if err := s.ctrl.RemovePage(*params.Index); err != nil {
		return s.operationError(req.ID, err)
	}
	return s.result(req.ID, map[string]interface{}{
		"removed":   *params.Index,
		"remaining": s.ctrl.Len(),
	})
}

func (s *Server) handleSessionPages(req *Request) *Response {
	pages := s.ctrl.Pages()
	summaries := make([]pageSummary, len(pages))
	for i, p := range pages {
		summaries[i] = summarize(i, p)
	}
	return s.result(req.ID, map[string]interface{}{
		"count": len(summaries),
		"pages": summaries,
	})
}

type sessionFinalizeParams struct {
	// Path is where the assembled PDF is written.
	Path string `json:"path"`
}

func (s *Server) handleSessionFinalize(req *Request) *Response {
	var params sessionFinalizeParams
	if len(req.Params) > 0 {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return s.invalidParams(req.ID, err)
		}
	}
	if params.Path == "" {
		return s.invalidParams(req.ID, errors.New("missing required field: path"))
	}

	doc, err := s.ctrl.Finalize(context.Background())
	if err != nil {
		return s.operationError(req.ID, err)
	}
	if err := doc.WriteFile(params.Path); err != nil {
		return s.operationError(req.ID, err)
	}

	s.logger.Info().Str("path", params.Path).Int("pages", doc.PageCount).Msg("document written")
	return s.result(req.ID, map[string]interface{}{
		"path":       params.Path,
		"page_count": doc.PageCount,
		"mode":       doc.Mode,
		"byte_size":  len(doc.Data),
	})
}

func (s *Server) handleSessionCancel(req *Request) *Response {
	discarded := s.ctrl.Len()
	if err := s.ctrl.Cancel(); err != nil {
		return s.operationError(req.ID, err)
	}
	return s.result(req.ID, map[string]interface{}{
		"discarded_pages": discarded,
	})
}
