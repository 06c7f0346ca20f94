package handler

import (
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/innovation-hub/internal/service"
)

// AssistantHandler exposes the translation, summary, language detection
// and transcription helpers.  Collaborator calls are bounded by the
// clients' own timeouts, not requestTimeout.
type AssistantHandler struct {
	Assistant     *service.Assistant
	MaxAudioBytes int64
}

// NewAssistantHandler constructs an AssistantHandler.
func NewAssistantHandler(a *service.Assistant, maxAudioMB int) *AssistantHandler {
	if maxAudioMB <= 0 {
		maxAudioMB = 25
	}
	return &AssistantHandler{Assistant: a, MaxAudioBytes: int64(maxAudioMB) << 20}
}

// Translate runs translate-then-summarize.  Body: text, source, target and
// an optional summary mode (none|target|source|both, default target).
func (h *AssistantHandler) Translate(c echo.Context) error {
	var req service.TranslationRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	res, err := h.Assistant.TranslateAndSummarize(c.Request().Context(), req)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

type summarizeReq struct {
	Text     string `json:"text"`
	Language string `json:"language"`
}

// Summarize summarizes text in the requested language.
func (h *AssistantHandler) Summarize(c echo.Context) error {
	var req summarizeReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	out, err := h.Assistant.Summarize(c.Request().Context(), req.Text, req.Language)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"summary": out})
}

type detectReq struct {
	Text string `json:"text"`
}

// DetectLanguage labels text as Vietnamese, English or Other.
func (h *AssistantHandler) DetectLanguage(c echo.Context) error {
	var req detectReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	lang, err := h.Assistant.DetectLanguage(c.Request().Context(), req.Text)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"language": lang})
}

// Transcribe accepts a multipart form with an "audio" file and optional
// translate, source, target and summary fields.
func (h *AssistantHandler) Transcribe(c echo.Context) error {
	fh, err := c.FormFile("audio")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "audio file is required"})
	}
	if fh.Size > h.MaxAudioBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": fmt.Sprintf("audio exceeds %d bytes", h.MaxAudioBytes)})
	}
	f, err := fh.Open()
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read audio"})
	}
	defer f.Close()
	audio, err := io.ReadAll(io.LimitReader(f, h.MaxAudioBytes+1))
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "cannot read audio"})
	}
	if int64(len(audio)) > h.MaxAudioBytes {
		return c.JSON(http.StatusRequestEntityTooLarge, echo.Map{"error": fmt.Sprintf("audio exceeds %d bytes", h.MaxAudioBytes)})
	}
	translate, _ := strconv.ParseBool(c.FormValue("translate"))

	res, err := h.Assistant.TranscribeAudio(c.Request().Context(), service.VoiceRequest{
		Audio:     audio,
		Filename:  fh.Filename,
		Translate: translate,
		Source:    c.FormValue("source"),
		Target:    c.FormValue("target"),
		Summary:   service.SummaryMode(c.FormValue("summary")),
	})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(http.StatusOK, res)
}
