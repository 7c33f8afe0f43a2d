package handler

import (
	"context"
	"errors"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/akave-ai/logrelay/internal/llm"
	"github.com/akave-ai/logrelay/internal/logfile"
	"github.com/akave-ai/logrelay/internal/model"
	"github.com/akave-ai/logrelay/internal/prompt"
	"github.com/akave-ai/logrelay/internal/response"
)

// Sampling temperatures per call site. Not user configurable.
const (
	RedactionTemperature = 0.2
	QuestionTemperature  = 0.3
)

const (
	msgInvalidFileType = "Invalid file type. Only .log or .txt allowed."
	msgFileTooLarge    = "File too large. Max size 2MB."
	msgMissingFile     = "file: field required"
)

// MaxUploadBody caps the whole multipart body of POST /upload. It sits well
// above logfile.MaxSize so form overhead never turns an acceptable file away.
const MaxUploadBody = 4 * logfile.MaxSize

// Completer is the remote completion service as seen by the handlers.
type Completer interface {
	Complete(ctx context.Context, prompt string, temperature float64) (string, error)
}

// RelayHandler serves /upload and /ask. Each request makes at most one
// Completer call and shares no state with other requests.
type RelayHandler struct {
	Model Completer
}

// Upload redacts an uploaded log file (POST /upload).
func (h *RelayHandler) Upload(c echo.Context) error {
	ctx := c.Request().Context()
	log := zerolog.Ctx(ctx)

	req := c.Request()
	if req.ContentLength > MaxUploadBody {
		log.Warn().Int64("content_length", req.ContentLength).Msg("upload body over limit")
		return response.BadRequest(c, msgFileTooLarge)
	}
	req.Body = http.MaxBytesReader(c.Response(), req.Body, MaxUploadBody)

	fh, err := c.FormFile("file")
	if err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			log.Warn().Err(err).Msg("upload body over limit")
			return response.BadRequest(c, msgFileTooLarge)
		}
		log.Warn().Err(err).Msg("upload without a file part")
		return response.Unprocessable(c, msgMissingFile)
	}
	filename := rawFilename(fh)
	rawFlags := c.FormValue("flags")
	log.Info().
		Str("filename", filename).
		Int64("size", fh.Size).
		Str("raw_flags", rawFlags).
		Msg("received upload")

	if err := logfile.ValidateName(filename); err != nil {
		return response.BadRequest(c, msgInvalidFileType)
	}

	f, err := fh.Open()
	if err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("open upload")
		return response.InternalError(c, "Could not read upload: "+err.Error())
	}
	defer f.Close()

	data, err := logfile.Read(f)
	if errors.Is(err, logfile.ErrFileTooLarge) {
		return response.BadRequest(c, msgFileTooLarge)
	}
	if err != nil {
		log.Error().Err(err).Str("filename", filename).Msg("read upload")
		return response.InternalError(c, "Could not read upload: "+err.Error())
	}
	text := logfile.Decode(data)

	flags, err := model.ParseFlags(rawFlags)
	if err != nil {
		log.Warn().Err(err).Str("filename", filename).Str("raw_flags", rawFlags).Msg("flags not parsed, using defaults")
	}
	log.Debug().Interface("flags", flags).Msg("parsed flags")

	redacted, err := h.Model.Complete(ctx, prompt.Redaction(text, flags), RedactionTemperature)
	if err != nil {
		logServiceError(log, err, "redaction call failed")
		return response.InternalError(c, "Redaction failed: "+err.Error())
	}
	return response.OK(c, model.RedactResponse{Redacted: redacted})
}

// Ask answers a question about a log (POST /ask).
func (h *RelayHandler) Ask(c echo.Context) error {
	ctx := c.Request().Context()
	log := zerolog.Ctx(ctx)

	var req model.QARequest
	if err := c.Bind(&req); err != nil {
		log.Warn().Err(err).Msg("bind ask request")
		return response.Unprocessable(c, bindErrorMessage(err))
	}
	if err := c.Validate(&req); err != nil {
		log.Warn().Err(err).Msg("validate ask request")
		return response.Unprocessable(c, err.Error())
	}

	answer, err := h.Model.Complete(ctx, prompt.Question(*req.Question, *req.Log), QuestionTemperature)
	if err != nil {
		logServiceError(log, err, "answer generation call failed")
		return response.InternalError(c, "Answer generation failed: "+err.Error())
	}
	return response.OK(c, model.AnswerResponse{Answer: answer})
}

// Health reports liveness. It does not contact the completion service.
func (h *RelayHandler) Health(c echo.Context) error {
	return response.OK(c, map[string]string{"status": "ok"})
}

// rawFilename returns the filename exactly as the client sent it in the
// part's Content-Disposition. mime/multipart reduces fh.Filename to its base
// name, which would let "evil.log/" pass as "evil.log".
func rawFilename(fh *multipart.FileHeader) string {
	_, params, err := mime.ParseMediaType(fh.Header.Get("Content-Disposition"))
	if err != nil {
		return fh.Filename
	}
	if name, ok := params["filename"]; ok {
		return name
	}
	return fh.Filename
}

func logServiceError(log *zerolog.Logger, err error, msg string) {
	ev := log.Error().Err(err)
	var sce *llm.ServiceCallError
	if errors.As(err, &sce) {
		ev = ev.Str("fault", string(sce.Kind))
		if sce.StatusCode != 0 {
			ev = ev.Int("upstream_status", sce.StatusCode)
		}
	}
	ev.Msg(msg)
}
