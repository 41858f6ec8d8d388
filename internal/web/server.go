// Package web serves the single-page translation UI on top of the facade.
package web

import (
	"context"
	"html/template"
	"net/http"

	"go.uber.org/zap"

	"github.com/valpere/opustran/internal"
	"github.com/valpere/opustran/internal/facade"
	"github.com/valpere/opustran/internal/language"
)

const (
	DownloadFilename = "translation.txt"
	// maxFormBytes bounds request bodies for both the translate and download
	// forms.
	maxFormBytes = 1 << 20
)

type Translator interface {
	Do(ctx context.Context, req internal.TranslationRequest) (*internal.TranslationResult, error)
}

type pageData struct {
	Title       string
	Names       []string
	AutoDetect  string
	Source      string
	Target      string
	Text        string
	Result      *internal.TranslationResult
	Message     facade.Message
	HasMessage  bool
	ShowWelcome bool
}

type Server struct {
	tr    Translator
	names []string
	log   *zap.Logger
	tmpl  *template.Template
}

func NewServer(tr Translator, names []string, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		tr:    tr,
		names: names,
		log:   log,
		tmpl:  template.Must(template.New("page").Parse(pageTemplate)),
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /translate", s.handleTranslate)
	mux.HandleFunc("POST /download", s.handleDownload)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	return mux
}

func (s *Server) newPage() pageData {
	data := pageData{
		Title:      "Language Translator",
		Names:      s.names,
		AutoDetect: language.AutoDetect,
	}
	if len(s.names) > 0 {
		data.Source = s.names[0]
		data.Target = s.names[0]
	}
	return data
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	data := s.newPage()
	data.ShowWelcome = true
	s.render(w, http.StatusOK, data)
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	data := s.newPage()
	data.Source = r.PostFormValue("source")
	data.Target = r.PostFormValue("target")
	data.Text = r.PostFormValue("text")

	res, err := s.tr.Do(r.Context(), internal.TranslationRequest{
		SourceName: data.Source,
		TargetName: data.Target,
		Text:       data.Text,
	})
	if err != nil {
		data.Message = facade.Describe(err)
		data.HasMessage = true
		s.log.Info("translation request failed",
			zap.String("source", data.Source),
			zap.String("target", data.Target),
			zap.String("severity", data.Message.Severity.String()),
			zap.Error(err))
		s.render(w, http.StatusOK, data)
		return
	}

	s.log.Info("translation served",
		zap.String("model", res.ModelID),
		zap.Bool("cache_hit", res.CacheHit),
		zap.Duration("latency", res.Latency))

	data.Result = res
	s.render(w, http.StatusOK, data)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+DownloadFilename+`"`)
	w.Write([]byte(r.PostFormValue("text")))
}

func (s *Server) render(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := s.tmpl.Execute(w, data); err != nil {
		s.log.Error("failed to render page", zap.Error(err))
	}
}

const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>{{.Title}}</title>
<style>
body { font-family: sans-serif; margin: 0; display: flex; }
aside { width: 16rem; padding: 1rem; background: #f0f2f6; min-height: 100vh; }
main { flex: 1; padding: 1rem 2rem; }
textarea { width: 100%; height: 12rem; }
.info { background: #e8f0fe; padding: .5rem; }
.warning { background: #fff4e5; padding: .5rem; }
.error { background: #fdecea; padding: .5rem; }
</style>
</head>
<body>
<form method="post" action="/translate" style="display: contents">
<aside>
<h2>Settings</h2>
<label>Select Source Language<br>
<select name="source">
<option value="{{.AutoDetect}}"{{if eq .Source .AutoDetect}} selected{{end}}>{{.AutoDetect}}</option>
{{- range .Names}}
<option value="{{.}}"{{if eq . $.Source}} selected{{end}}>{{.}}</option>
{{- end}}
</select></label>
<p><label>Select Target Language<br>
<select name="target">
{{- range .Names}}
<option value="{{.}}"{{if eq . $.Target}} selected{{end}}>{{.}}</option>
{{- end}}
</select></label></p>
</aside>
<main>
<h1>&#127760; {{.Title}}</h1>
<p>This application translates text from one language to another using pre-trained Opus-MT models.</p>
<h3>Enter the text you want to translate:</h3>
<textarea name="text">{{.Text}}</textarea>
<p><button type="submit">Translate</button></p>
{{- if .HasMessage}}
<div class="{{.Message.Severity}}">{{.Message.Text}}</div>
{{- end}}
{{- with .Result}}
<h3>Translated Text:</h3>
<p id="result">{{.TranslatedText}}</p>
<p><small>{{.ModelID}}{{if .Detected}} (detected {{.SourceCode}}){{end}}</small></p>
{{- if .OutputWarning}}
<div class="warning">The translation may not be in the target language: {{.OutputWarning}}</div>
{{- end}}
</main>
</form>
<form method="post" action="/download">
<input type="hidden" name="text" value="{{.TranslatedText}}">
<button type="submit">Download Translation</button>
</form>
{{- else}}
{{- if $.ShowWelcome}}
<div class="info">Enter text and select languages to start translating.</div>
{{- end}}
</main>
</form>
{{- end}}
</body>
</html>
`
