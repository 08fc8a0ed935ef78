package web

import (
	"net/http"
	"sort"

	"github.com/ytget/yt-webui/internal/model"
	"github.com/ytget/yt-webui/internal/session"
)

type languageOption struct {
	Code string
	Name string
}

type pageData struct {
	loc            *Localization
	Lang           string
	Languages      []languageOption
	Qualities      []model.QualityTier
	DefaultQuality model.QualityTier
	DownloadDir    string
	Engine         string
	Stats          session.Stats
}

// T returns the localized text for key
func (d pageData) T(key string) string {
	return d.loc.GetText(key)
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	cfg := s.cfg.Get()
	loc := s.localization(r, cfg)

	languages := make([]languageOption, 0, 3)
	for code, name := range loc.GetAvailableLanguages() {
		languages = append(languages, languageOption{Code: code, Name: name})
	}
	sort.Slice(languages, func(i, j int) bool { return languages[i].Code < languages[j].Code })

	data := pageData{
		loc:            loc,
		Lang:           loc.GetCurrentLanguage(),
		Languages:      languages,
		Qualities:      model.QualityTiers(),
		DefaultQuality: cfg.GetDefaultQuality(),
		DownloadDir:    cfg.GetDownloadDirectory(),
		Engine:         s.svc.EngineName(),
		Stats:          s.sessions.Stats(session.FromRequest(r)),
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.page.Execute(w, data); err != nil {
		s.logger.Error().Err(err).Msg("render page")
	}
}
