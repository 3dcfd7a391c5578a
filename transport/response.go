package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/farmlink/marketplace/constant"
	cerr "github.com/farmlink/marketplace/utils/errors"
)

type response struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, resp response) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

func writeSuccess(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusOK, response{
		Code:    constant.ErrorTypeCode[constant.Successful],
		Message: constant.ErrorTypeMessage[constant.Successful],
		Data:    data,
	})
}

func writeCreated(w http.ResponseWriter, data interface{}) {
	writeJSON(w, http.StatusCreated, response{
		Code:    constant.ErrorTypeCode[constant.Successful],
		Message: constant.ErrorTypeMessage[constant.Successful],
		Data:    data,
	})
}

func writeError(w http.ResponseWriter, err error) {
	writeErrorWithData(w, err, nil)
}

// writeErrorWithData lets checkout failures carry the failing cart lines
// back to the client.
func writeErrorWithData(w http.ResponseWriter, err error, data interface{}) {
	var ce cerr.CustomError
	if !errors.As(err, &ce) {
		ce = cerr.SetCustomError(constant.ErrInternal)
	}
	writeJSON(w, ce.ErrorHTTPCode(), response{
		Code:    ce.ErrorCode(),
		Message: ce.Error(),
		Data:    data,
	})
}

func isErrorType(err error, t constant.ErrorType) bool {
	var ce cerr.CustomError
	if !errors.As(err, &ce) {
		return false
	}
	return ce.ErrorCode() == constant.ErrorTypeCode[t]
}
