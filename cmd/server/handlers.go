package main

import (
	"net/http"
	"strings"

	"github.com/lychee-technology/gviz"
	"github.com/lychee-technology/gviz/internal/engine"
	"github.com/lychee-technology/gviz/internal/render"
	"github.com/lychee-technology/gviz/internal/split"
	"github.com/lychee-technology/gviz/internal/validate"
)

// handleQuery serves GET /gviz/{provider}?tq=...&tqx=...
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(r.URL.Path, "/gviz/")
	name = strings.Trim(name, "/")
	provider, ok := s.providers[name]
	if !ok {
		writeQueryError(w, http.StatusNotFound, "", gviz.NewInvalidRequestError("no such data source %q", name))
		return
	}

	tqx, err := render.ParseTqx(r.URL.Query().Get("tqx"))
	if err != nil {
		writeQueryError(w, http.StatusBadRequest, "", gviz.NewInvalidRequestError("%s", err))
		return
	}

	tqx.ReqID = requestID(tqx.ReqID)

	if origin := r.Header.Get("Origin"); origin != "" && allowedOrigin(s.cfg.Server.AllowedOrigins, origin) {
		corsHeaders(w, origin)
	}

	sameOrigin := r.Header.Get("X-DataSource-Auth") != ""
	if !sameOrigin && tqx.OutType == "json" {
		tqx.OutType = "jsonp"
	}
	if s.cfg.Server.RequireSameOrigin && !sameOrigin && isRestrictedOutType(tqx.OutType) {
		writeQueryError(w, http.StatusForbidden, tqx.ReqID, gviz.NewAccessDeniedError("cross-origin request requires X-DataSource-Auth"))
		return
	}

	q, err := ParseQueryString(r.URL.Query().Get("tq"))
	if err != nil {
		writeQueryError(w, http.StatusBadRequest, tqx.ReqID, gviz.NewInvalidQueryError(gviz.MsgParseError, "%s", err))
		return
	}

	if err := validate.Structural(q); err != nil {
		writeQueryErrorAs(w, tqx.ReqID, err)
		return
	}

	ctx := r.Context()
	cap := provider.Capabilities(ctx)
	providerQuery, residual, plan := split.SplitQuery(q, cap, s.log)
	_ = plan

	reqCtx := gviz.RequestContext{Locale: r.URL.Query().Get("locale")}
	if reqCtx.Locale == "" {
		reqCtx.Locale = "en-US"
	}

	src, err := provider.Generate(ctx, providerQuery, reqCtx)
	if err != nil {
		writeQueryErrorAs(w, tqx.ReqID, err)
		return
	}

	if schema, ok := provider.(gviz.Schema); ok {
		cols, err := schema.Describe(ctx)
		if err == nil {
			if err := validate.Schema(q, cols); err != nil {
				writeQueryErrorAs(w, tqx.ReqID, err)
				return
			}
			if schemaJSON, ok := s.schemas[name]; ok {
				if err := validate.ColumnDescriptionsAgainstSchema(schemaJSON, cols); err != nil {
					writeQueryErrorAs(w, tqx.ReqID, err)
					return
				}
			}
		}
	}

	out, err := engine.Run(ctx, src, residual, reqCtx.Locale, s.log)
	if err != nil {
		writeQueryErrorAs(w, tqx.ReqID, err)
		return
	}

	writeTable(w, tqx, out)
}

func isRestrictedOutType(outType string) bool {
	switch outType {
	case "csv", "tsv-excel", "html":
		return false
	default:
		return true
	}
}

func writeTable(w http.ResponseWriter, tqx render.Tqx, t *gviz.Table) {
	switch tqx.OutType {
	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		render.WriteCSV(w, t)
	case "tsv-excel":
		w.Header().Set("Content-Type", "text/tab-separated-values")
		render.WriteTSVExcel(w, t)
	case "html":
		w.Header().Set("Content-Type", "text/html")
		render.WriteHTML(w, t)
	case "jsonp":
		w.Header().Set("Content-Type", "text/javascript")
		handler := tqx.ResponseHandler
		if handler == "" {
			handler = "google.visualization.Query.setResponse"
		}
		render.WriteJSONP(w, handler, render.SuccessEnvelope(tqx.ReqID, t))
	default:
		w.Header().Set("Content-Type", "application/json")
		render.WriteJSON(w, render.SuccessEnvelope(tqx.ReqID, t))
	}
}

func writeQueryErrorAs(w http.ResponseWriter, reqID string, err error) {
	qe, ok := err.(*gviz.QueryError)
	if !ok {
		qe = gviz.NewInternalError(err)
	}
	status := statusForReason(qe.Reason)
	writeQueryError(w, status, reqID, qe)
}

func writeQueryError(w http.ResponseWriter, status int, reqID string, err *gviz.QueryError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	render.WriteJSON(w, render.ErrorEnvelope(reqID, err))
}

func statusForReason(r gviz.Reason) int {
	switch r {
	case gviz.ReasonAccessDenied, gviz.ReasonUserNotAuthenticated:
		return http.StatusForbidden
	case gviz.ReasonInvalidQuery, gviz.ReasonInvalidRequest, gviz.ReasonIllegalFormattingPatterns:
		return http.StatusBadRequest
	case gviz.ReasonUnsupportedQueryOperation, gviz.ReasonNotSupported:
		return http.StatusNotImplemented
	case gviz.ReasonTimeout:
		return http.StatusGatewayTimeout
	case gviz.ReasonNotModified:
		return http.StatusNotModified
	default:
		return http.StatusInternalServerError
	}
}
