package server

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/Jessvaldo2026/YRNAlone-sub001/internal/recording"
	"github.com/gin-gonic/gin"
)

// uploadReader remembers the first read failure so a truncated upload is
// not mistaken for a finished one.
type uploadReader struct {
	reader io.Reader
	err    error
}

func (r *uploadReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	if err != nil && !errors.Is(err, io.EOF) && r.err == nil {
		r.err = err
	}
	return n, err
}

// captureUpload records the request body through a recording session, the same
// path a live microphone capture takes. The shared recorder admits one upload
// at a time across composers.
func (h *httpHandler) captureUpload(c *gin.Context, composer recording.Composer) (recording.Blob, error) {
	declared := strings.ReplaceAll(strings.ToLower(c.GetHeader("Content-Type")), " ", "")
	body := &uploadReader{reader: http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadBytes)}
	device := recording.NewReaderDevice(body, 0, declared, c.ContentType())
	if !device.IsTypeSupported(recording.NegotiateMIMEType(device)) {
		return recording.Blob{}, recording.ErrUnsupported
	}

	session, err := recording.NewSession(recording.SessionConfig{Device: device, Logger: h.logger})
	if err != nil {
		return recording.Blob{}, err
	}
	defer session.Close()

	ctx := c.Request.Context()
	if err := h.recorder.StartSession(ctx, composer, session); err != nil {
		return recording.Blob{}, err
	}
	select {
	case <-session.Drained():
	case <-ctx.Done():
		return recording.Blob{}, ctx.Err()
	}
	if body.err != nil {
		return recording.Blob{}, body.err
	}

	blob, err := h.recorder.Stop(composer)
	if err != nil {
		return recording.Blob{}, err
	}
	if seconds, err := strconv.Atoi(c.Query("seconds")); err == nil && seconds > 0 {
		blob.Duration = time.Duration(seconds) * time.Second
	}
	return blob, nil
}

func (h *httpHandler) handlePostVoice(c *gin.Context) {
	blob, err := h.captureUpload(c, recording.ComposerPersonal)
	if err != nil {
		h.fail(c, "posts.voice", err)
		return
	}
	h.model.AttachPostVoice(blob)
	c.JSON(http.StatusOK, h.model.PostComposer())
}

func (h *httpHandler) handleGroupVoice(c *gin.Context) {
	groupID := c.Param("id")
	if _, err := h.model.Group(groupID); err != nil {
		h.fail(c, "groups.voice", err)
		return
	}
	blob, err := h.captureUpload(c, recording.ComposerGroup)
	if err != nil {
		h.fail(c, "groups.voice", err)
		return
	}
	if err := h.model.AttachGroupVoice(groupID, blob); err != nil {
		h.fail(c, "groups.voice", err)
		return
	}
	c.JSON(http.StatusOK, h.model.GroupComposer(groupID))
}
