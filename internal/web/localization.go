package web

import (
	"net/http"
	"strings"
)

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle          = "app_title"
	KeySettings          = "settings"
	KeyDownloadDirectory = "download_directory"
	KeyEnterURL          = "enter_url"
	KeyPreview           = "preview"
	KeyDownload          = "download"
	KeyQuickDownload     = "quick_download"
	KeyQuickDownloadHelp = "quick_download_help"
	KeySelectQuality     = "select_quality"
	KeyVideoPreview      = "video_preview"
	KeyTitle             = "title"
	KeyChannel           = "channel"
	KeyDuration          = "duration"
	KeyViews             = "views"
	KeyUploadDate        = "upload_date"
	KeyQualities         = "qualities"
	KeyDescription       = "description"
	KeyQuickActions      = "quick_actions"
	KeyPlaylist          = "playlist"
	KeyPlaylistURL       = "playlist_url"
	KeyListPlaylist      = "list_playlist"
	KeyDownloadPlaylist  = "download_playlist"
	KeyAudioOnly         = "audio_only"
	KeyExtractAudio      = "extract_audio"
	KeySessionStats      = "session_stats"
	KeyDownloads         = "downloads"
	KeySuccessRate       = "success_rate"
	KeyCookies           = "cookies"
	KeyCookiesMissing    = "cookies_missing"
	KeyHelp              = "help"
	KeyHowToUse          = "how_to_use"
	KeyHowToUseText      = "how_to_use_text"
	KeySupportedURLs     = "supported_urls"
	KeySupportedURLsText = "supported_urls_text"
	KeyLanguage          = "language"

	KeyPleaseEnterURL     = "please_enter_url"
	KeyInvalidURL         = "invalid_url"
	KeyNotPlaylist        = "not_playlist"
	KeyUnknownQuality     = "unknown_quality"
	KeyInvalidDirectory   = "invalid_directory"
	KeyPreviewFailed      = "preview_failed"
	KeyDownloadStarted    = "download_started"
	KeyProcessing         = "processing"
	KeyDownloadCompleted  = "download_completed"
	KeyQuickCompleted     = "quick_completed"
	KeyDownloadFailed     = "download_failed"
	KeyFileSavedTo        = "file_saved_to"
	KeyAudioCompleted     = "audio_completed"
	KeyAudioFailed        = "audio_failed"
	KeyPlaylistFailed     = "playlist_failed"
	KeyPlaylistDownloaded = "playlist_downloaded"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// WithLanguage returns a copy of l switched to lang
func (l *Localization) WithLanguage(lang string) *Localization {
	c := *l
	c.SetLanguage(lang)
	return &c
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// RequestLanguage picks the language of r: the lang query parameter, then the
// Accept-Language header, then fallback.
func (l *Localization) RequestLanguage(r *http.Request, fallback string) string {
	if lang := strings.ToLower(r.URL.Query().Get("lang")); lang != "" {
		if _, ok := l.texts[lang]; ok {
			return lang
		}
	}

	for _, part := range strings.Split(r.Header.Get("Accept-Language"), ",") {
		tag, _, _ := strings.Cut(strings.TrimSpace(part), ";")
		base, _, _ := strings.Cut(strings.ToLower(tag), "-")
		if _, ok := l.texts[base]; ok {
			return base
		}
	}

	if _, ok := l.texts[fallback]; ok {
		return fallback
	}
	return "en"
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	// English texts
	l.texts["en"] = map[string]string{
		KeyAppTitle:          "YouTube Video Downloader",
		KeySettings:          "Settings",
		KeyDownloadDirectory: "Download Directory",
		KeyEnterURL:          "Enter YouTube URL",
		KeyPreview:           "Preview Video",
		KeyDownload:          "Download Video",
		KeyQuickDownload:     "Quick Download",
		KeyQuickDownloadHelp: "Download in best quality instantly",
		KeySelectQuality:     "Select Quality",
		KeyVideoPreview:      "Video Preview",
		KeyTitle:             "Title",
		KeyChannel:           "Channel",
		KeyDuration:          "Duration",
		KeyViews:             "Views",
		KeyUploadDate:        "Upload Date",
		KeyQualities:         "Available Qualities",
		KeyDescription:       "Description",
		KeyQuickActions:      "Quick Actions",
		KeyPlaylist:          "Playlist Download",
		KeyPlaylistURL:       "Playlist URL",
		KeyListPlaylist:      "List Videos",
		KeyDownloadPlaylist:  "Download Playlist",
		KeyAudioOnly:         "Audio Only",
		KeyExtractAudio:      "Extract Audio",
		KeySessionStats:      "Session Stats",
		KeyDownloads:         "Downloads",
		KeySuccessRate:       "Success Rate",
		KeyCookies:           "Cookies",
		KeyCookiesMissing:    "No cookie file",
		KeyHelp:              "Help",
		KeyHowToUse:          "How to use",
		KeyHowToUseText:      "Paste a video URL, preview it, pick a quality and download. Files land in the download directory.",
		KeySupportedURLs:     "Supported URLs",
		KeySupportedURLsText: "youtube.com/watch?v=..., youtu.be/..., youtube.com/playlist?list=...",
		KeyLanguage:          "Language",

		KeyPleaseEnterURL:     "Please enter a URL",
		KeyInvalidURL:         "Invalid URL",
		KeyNotPlaylist:        "Not a playlist URL",
		KeyUnknownQuality:     "Unknown quality",
		KeyInvalidDirectory:   "Invalid download directory",
		KeyPreviewFailed:      "Error getting video info",
		KeyDownloadStarted:    "Download started",
		KeyProcessing:         "Processing downloaded file...",
		KeyDownloadCompleted:  "Download completed successfully!",
		KeyQuickCompleted:     "Quick download completed!",
		KeyDownloadFailed:     "Download failed. Please try again.",
		KeyFileSavedTo:        "File saved to",
		KeyAudioCompleted:     "Audio extracted successfully!",
		KeyAudioFailed:        "Audio extraction failed",
		KeyPlaylistFailed:     "Could not read the playlist",
		KeyPlaylistDownloaded: "Playlist downloaded",
	}

	// Russian texts
	l.texts["ru"] = map[string]string{
		KeyAppTitle:          "Загрузчик видео YouTube",
		KeySettings:          "Настройки",
		KeyDownloadDirectory: "Папка загрузки",
		KeyEnterURL:          "Введите URL YouTube",
		KeyPreview:           "Предпросмотр",
		KeyDownload:          "Скачать видео",
		KeyQuickDownload:     "Быстрая загрузка",
		KeyQuickDownloadHelp: "Скачать в лучшем качестве сразу",
		KeySelectQuality:     "Качество",
		KeyVideoPreview:      "Предпросмотр видео",
		KeyTitle:             "Название",
		KeyChannel:           "Канал",
		KeyDuration:          "Длительность",
		KeyViews:             "Просмотры",
		KeyUploadDate:        "Дата загрузки",
		KeyQualities:         "Доступное качество",
		KeyDescription:       "Описание",
		KeyQuickActions:      "Быстрые действия",
		KeyPlaylist:          "Загрузка плейлиста",
		KeyPlaylistURL:       "URL плейлиста",
		KeyListPlaylist:      "Показать видео",
		KeyDownloadPlaylist:  "Скачать плейлист",
		KeyAudioOnly:         "Только аудио",
		KeyExtractAudio:      "Извлечь аудио",
		KeySessionStats:      "Статистика сессии",
		KeyDownloads:         "Загрузки",
		KeySuccessRate:       "Успешность",
		KeyCookies:           "Cookies",
		KeyCookiesMissing:    "Файл cookies не найден",
		KeyHelp:              "Помощь",
		KeyHowToUse:          "Как пользоваться",
		KeyHowToUseText:      "Вставьте URL видео, посмотрите сведения, выберите качество и скачайте. Файлы сохраняются в папку загрузки.",
		KeySupportedURLs:     "Поддерживаемые URL",
		KeySupportedURLsText: "youtube.com/watch?v=..., youtu.be/..., youtube.com/playlist?list=...",
		KeyLanguage:          "Язык",

		KeyPleaseEnterURL:     "Пожалуйста, введите URL",
		KeyInvalidURL:         "Неверный URL",
		KeyNotPlaylist:        "Это не URL плейлиста",
		KeyUnknownQuality:     "Неизвестное качество",
		KeyInvalidDirectory:   "Неверная папка загрузки",
		KeyPreviewFailed:      "Не удалось получить сведения о видео",
		KeyDownloadStarted:    "Загрузка начата",
		KeyProcessing:         "Обработка загруженного файла...",
		KeyDownloadCompleted:  "Загрузка успешно завершена!",
		KeyQuickCompleted:     "Быстрая загрузка завершена!",
		KeyDownloadFailed:     "Ошибка загрузки. Попробуйте ещё раз.",
		KeyFileSavedTo:        "Файл сохранён в",
		KeyAudioCompleted:     "Аудио успешно извлечено!",
		KeyAudioFailed:        "Не удалось извлечь аудио",
		KeyPlaylistFailed:     "Не удалось прочитать плейлист",
		KeyPlaylistDownloaded: "Плейлист загружен",
	}

	// Portuguese texts
	l.texts["pt"] = map[string]string{
		KeyAppTitle:          "Baixador de Vídeos do YouTube",
		KeySettings:          "Configurações",
		KeyDownloadDirectory: "Diretório de Download",
		KeyEnterURL:          "Digite URL do YouTube",
		KeyPreview:           "Visualizar",
		KeyDownload:          "Baixar Vídeo",
		KeyQuickDownload:     "Download Rápido",
		KeyQuickDownloadHelp: "Baixar na melhor qualidade imediatamente",
		KeySelectQuality:     "Qualidade",
		KeyVideoPreview:      "Prévia do Vídeo",
		KeyTitle:             "Título",
		KeyChannel:           "Canal",
		KeyDuration:          "Duração",
		KeyViews:             "Visualizações",
		KeyUploadDate:        "Data de Envio",
		KeyQualities:         "Qualidades Disponíveis",
		KeyDescription:       "Descrição",
		KeyQuickActions:      "Ações Rápidas",
		KeyPlaylist:          "Download de Playlist",
		KeyPlaylistURL:       "URL da Playlist",
		KeyListPlaylist:      "Listar Vídeos",
		KeyDownloadPlaylist:  "Baixar Playlist",
		KeyAudioOnly:         "Somente Áudio",
		KeyExtractAudio:      "Extrair Áudio",
		KeySessionStats:      "Estatísticas da Sessão",
		KeyDownloads:         "Downloads",
		KeySuccessRate:       "Taxa de Sucesso",
		KeyCookies:           "Cookies",
		KeyCookiesMissing:    "Nenhum arquivo de cookies",
		KeyHelp:              "Ajuda",
		KeyHowToUse:          "Como usar",
		KeyHowToUseText:      "Cole a URL do vídeo, visualize, escolha a qualidade e baixe. Os arquivos vão para o diretório de download.",
		KeySupportedURLs:     "URLs Suportadas",
		KeySupportedURLsText: "youtube.com/watch?v=..., youtu.be/..., youtube.com/playlist?list=...",
		KeyLanguage:          "Idioma",

		KeyPleaseEnterURL:     "Por favor, digite uma URL",
		KeyInvalidURL:         "URL inválida",
		KeyNotPlaylist:        "Não é uma URL de playlist",
		KeyUnknownQuality:     "Qualidade desconhecida",
		KeyInvalidDirectory:   "Diretório de download inválido",
		KeyPreviewFailed:      "Erro ao obter informações do vídeo",
		KeyDownloadStarted:    "Download iniciado",
		KeyProcessing:         "Processando arquivo baixado...",
		KeyDownloadCompleted:  "Download concluído com sucesso!",
		KeyQuickCompleted:     "Download rápido concluído!",
		KeyDownloadFailed:     "Falha no download. Tente novamente.",
		KeyFileSavedTo:        "Arquivo salvo em",
		KeyAudioCompleted:     "Áudio extraído com sucesso!",
		KeyAudioFailed:        "Falha ao extrair áudio",
		KeyPlaylistFailed:     "Não foi possível ler a playlist",
		KeyPlaylistDownloaded: "Playlist baixada",
	}
}
