package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/iliyamo/innovation-hub/internal/ai"
)

// Completer is the text-completion collaborator.
type Completer interface {
	Complete(ctx context.Context, messages []ai.Message) (string, error)
}

// Transcriber is the speech-to-text collaborator.
type Transcriber interface {
	Transcribe(ctx context.Context, audio []byte, filename string) (string, error)
}

// Language labels returned by DetectLanguage.
const (
	LanguageVietnamese = "Vietnamese"
	LanguageEnglish    = "English"
	LanguageOther      = "Other"
)

var languageLabels = []string{LanguageVietnamese, LanguageEnglish, LanguageOther}

// SummaryMode selects which language(s) a pipeline summary is written in.
type SummaryMode string

const (
	SummaryNone   SummaryMode = "none"
	SummaryTarget SummaryMode = "target"
	SummarySource SummaryMode = "source"
	SummaryBoth   SummaryMode = "both"
)

// Assistant wraps the two AI collaborators.  Every collaborator failure is
// reported as ErrCollaborator and never replaced by the input text.
type Assistant struct {
	llm Completer
	stt Transcriber
	now func() time.Time
}

// NewAssistant returns an assistant.  Either collaborator may be nil; the
// operations that need it then fail with ErrCollaborator.
func NewAssistant(llm Completer, stt Transcriber) *Assistant {
	return &Assistant{llm: llm, stt: stt, now: time.Now}
}

func (a *Assistant) complete(ctx context.Context, system, prompt string) (string, error) {
	if a.llm == nil {
		return "", fmt.Errorf("%w: text completion is not configured", ErrCollaborator)
	}
	out, err := a.llm.Complete(ctx, []ai.Message{
		{Role: ai.RoleSystem, Content: system},
		{Role: ai.RoleUser, Content: prompt},
	})
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrCollaborator, err)
	}
	return out, nil
}

func checkLanguages(source, target string) error {
	switch {
	case strings.TrimSpace(source) == "" || strings.TrimSpace(target) == "":
		return fmt.Errorf("%w: source and target languages are required", ErrValidation)
	case strings.EqualFold(source, target):
		return fmt.Errorf("%w: source and target languages must differ", ErrValidation)
	}
	return nil
}

// Translate translates text from source to target.
func (a *Assistant) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: text is required", ErrValidation)
	}
	if err := checkLanguages(source, target); err != nil {
		return "", err
	}
	system := fmt.Sprintf("You are a professional translator specializing in %s to %s translation. "+
		"Provide accurate, natural-sounding translations that preserve the meaning and tone of the original text. "+
		"Only return the translated text without any explanations or additional comments.", source, target)
	prompt := fmt.Sprintf("Translate the following text from %s to %s:\n\n%s", source, target, text)
	return a.complete(ctx, system, prompt)
}

// Summarize writes a concise summary of text in language.
func (a *Assistant) Summarize(ctx context.Context, text, language string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: text is required", ErrValidation)
	}
	if strings.TrimSpace(language) == "" {
		return "", fmt.Errorf("%w: language is required", ErrValidation)
	}
	system := fmt.Sprintf("You are an expert at summarizing content in %s. "+
		"Create concise, informative summaries that capture the key points and main ideas. "+
		"Only return the summary without any explanations or additional comments.", language)
	prompt := fmt.Sprintf("Summarize the following text in %s:\n\n%s", language, text)
	return a.complete(ctx, system, prompt)
}

// DetectLanguage classifies text as Vietnamese, English or Other.  A reply
// that names none or several labels is a collaborator failure.
func (a *Assistant) DetectLanguage(ctx context.Context, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("%w: text is required", ErrValidation)
	}
	system := "You identify the language of a text. Reply with exactly one word: " +
		strings.Join(languageLabels, ", ") + "."
	out, err := a.complete(ctx, system, text)
	if err != nil {
		return "", err
	}
	reply := strings.ToLower(out)
	found := ""
	for _, l := range languageLabels {
		if strings.Contains(reply, strings.ToLower(l)) {
			if found != "" {
				return "", fmt.Errorf("%w: ambiguous language reply %q", ErrCollaborator, out)
			}
			found = l
		}
	}
	if found == "" {
		return "", fmt.Errorf("%w: unrecognised language reply %q", ErrCollaborator, out)
	}
	return found, nil
}

// EnhanceDescription asks the model for a clearer, more persuasive version
// of the idea description.
func (a *Assistant) EnhanceDescription(ctx context.Context, d IdeaDraft) (string, error) {
	system := "You are an innovation consultant helping employees present their ideas. " +
		"Rewrite the idea description so it is clear, specific and persuasive. " +
		"Keep the original intent. Only return the improved description."
	var b strings.Builder
	fmt.Fprintf(&b, "Title: %s\nCategory: %s\nDescription: %s\n", d.Title, d.Category, d.Description)
	for _, f := range []struct{ name, value string }{
		{"Problem", d.Problem}, {"Solution", d.Solution}, {"Benefits", d.Benefits}, {"Resources", d.Resources},
	} {
		if strings.TrimSpace(f.value) != "" {
			fmt.Fprintf(&b, "%s: %s\n", f.name, f.value)
		}
	}
	return a.complete(ctx, system, b.String())
}

// TranslationRequest drives the translate-then-summarize pipeline.
type TranslationRequest struct {
	Text    string      `json:"text"`
	Source  string      `json:"source"`
	Target  string      `json:"target"`
	Summary SummaryMode `json:"summary"`
}

// TranslationResult holds the pipeline output.  Export is the combined
// plain-text document for download.
type TranslationResult struct {
	Original    string `json:"original"`
	Translation string `json:"translation"`
	Summary     string `json:"summary,omitempty"`
	Export      string `json:"export"`
}

// TranslateAndSummarize translates the text and, unless the mode is none,
// summarizes it.  A failed translation aborts before summarizing.
func (a *Assistant) TranslateAndSummarize(ctx context.Context, req TranslationRequest) (TranslationResult, error) {
	res := TranslationResult{Original: req.Text}
	translated, err := a.Translate(ctx, req.Text, req.Source, req.Target)
	if err != nil {
		return res, err
	}
	res.Translation = translated

	res.Summary, err = a.summarizeFor(ctx, req, translated)
	if err != nil {
		return res, err
	}
	res.Export = ExportText(req.Source, req.Target, req.Text, res.Translation, res.Summary, a.now())
	return res, nil
}

func (a *Assistant) summarizeFor(ctx context.Context, req TranslationRequest, translated string) (string, error) {
	switch req.Summary {
	case SummaryNone:
		return "", nil
	case SummaryTarget, "":
		return a.Summarize(ctx, translated, req.Target)
	case SummarySource:
		return a.Summarize(ctx, req.Text, req.Source)
	case SummaryBoth:
		src, err := a.Summarize(ctx, req.Text, req.Source)
		if err != nil {
			return "", err
		}
		dst, err := a.Summarize(ctx, translated, req.Target)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("**Summary in %s:**\n%s\n\n**Summary in %s:**\n%s", req.Source, src, req.Target, dst), nil
	}
	return "", fmt.Errorf("%w: unknown summary mode %q", ErrValidation, req.Summary)
}

// ExportText renders the combined download document.
func ExportText(source, target, original, translation, summary string, at time.Time) string {
	rule := strings.Repeat("=", 80)
	var b strings.Builder
	fmt.Fprintf(&b, "ORIGINAL TEXT (%s):\n%s\n\n%s\n\n", source, original, rule)
	fmt.Fprintf(&b, "TRANSLATION (%s):\n%s\n\n%s\n\n", target, translation, rule)
	if summary != "" {
		fmt.Fprintf(&b, "SUMMARY:\n%s\n\n%s\n", summary, rule)
	}
	fmt.Fprintf(&b, "Generated on: %s\n", at.Format("2006-01-02 15:04:05"))
	return b.String()
}

// VoiceRequest drives the transcribe pipeline.  With Translate unset only
// the transcript is produced.
type VoiceRequest struct {
	Audio     []byte
	Filename  string
	Translate bool
	Source    string
	Target    string
	Summary   SummaryMode
}

// VoiceResult holds the transcript and, when requested, the translation
// pipeline output.
type VoiceResult struct {
	Transcript  string             `json:"transcript"`
	Translation *TranslationResult `json:"translation,omitempty"`
}

// TranscribeAudio transcribes the recording and optionally feeds the
// transcript into the translation pipeline.  An empty or unintelligible
// transcript stops the pipeline with ErrCollaborator.
func (a *Assistant) TranscribeAudio(ctx context.Context, req VoiceRequest) (VoiceResult, error) {
	var res VoiceResult
	if len(req.Audio) == 0 {
		return res, fmt.Errorf("%w: audio is required", ErrValidation)
	}
	if a.stt == nil {
		return res, fmt.Errorf("%w: speech-to-text is not configured", ErrCollaborator)
	}
	text, err := a.stt.Transcribe(ctx, req.Audio, req.Filename)
	if err != nil {
		return res, fmt.Errorf("%w: %v", ErrCollaborator, err)
	}
	if !intelligible(text) {
		return res, fmt.Errorf("%w: transcription produced no usable text", ErrCollaborator)
	}
	res.Transcript = strings.TrimSpace(text)
	if !req.Translate {
		return res, nil
	}
	tr, err := a.TranslateAndSummarize(ctx, TranslationRequest{
		Text: res.Transcript, Source: req.Source, Target: req.Target, Summary: req.Summary,
	})
	if err != nil {
		return res, err
	}
	res.Translation = &tr
	return res, nil
}

// intelligible rejects transcripts with no letters at all, which is what
// the endpoint returns for silence or noise.
func intelligible(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}
