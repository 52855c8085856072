package response

import (
	"bytes"
	"encoding/json"
	"net/http"

	appErrors "github.com/ehomehq/ehome/pkg/errors"
	"github.com/gin-gonic/gin"
)

const (
	okMessage   = "OK"
	contentType = "application/json; charset=utf-8"
)

// Response defines the base API payload.
type Response struct {
	Errno  int         `json:"errno"`
	Errmsg string      `json:"errmsg"`
	Data   interface{} `json:"data,omitempty"`
}

// Success writes a JSON success response.
func Success(c *gin.Context, statusCode int, data interface{}) {
	c.JSON(statusCode, Response{
		Errno:  appErrors.OK,
		Errmsg: okMessage,
		Data:   data,
	})
}

// Envelope splices an already serialised data payload into the success envelope
// without decoding it. Cached payloads are forwarded through here verbatim.
func Envelope(data json.RawMessage) []byte {
	var buf bytes.Buffer
	buf.Grow(len(data) + 32)
	buf.WriteString(`{"errno":0,"errmsg":"OK","data":`)
	if len(data) == 0 {
		buf.WriteString("null")
	} else {
		buf.Write(data)
	}
	buf.WriteByte('}')
	return buf.Bytes()
}

// Raw writes a success envelope around a pre-serialised data payload.
func Raw(c *gin.Context, statusCode int, data json.RawMessage) {
	c.Data(statusCode, contentType, Envelope(data))
}

// Blob writes a complete, pre-serialised response body.
func Blob(c *gin.Context, statusCode int, body []byte) {
	c.Data(statusCode, contentType, body)
}

// Error writes a JSON error response derived from an AppError.
func Error(c *gin.Context, err error) {
	if err == nil {
		err = appErrors.ErrInternalServer
	}

	appErr := appErrors.FromError(err)
	status := appErr.StatusCode
	if status == 0 {
		status = http.StatusInternalServerError
	}

	c.JSON(status, Response{
		Errno:  appErr.Errno,
		Errmsg: appErr.Message,
	})
}
