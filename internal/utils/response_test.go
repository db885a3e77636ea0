package utils_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/proyectoiso/recetario/internal/constants"
	"github.com/proyectoiso/recetario/internal/utils"
)

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response body %q: %v", rr.Body.String(), err)
	}
	return body
}

func TestSuccess(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		message    string
		data       utils.Payload
		wantKeys   map[string]interface{}
	}{
		{
			name:       "Merges data at the top level",
			statusCode: http.StatusCreated,
			message:    constants.MsgAccountCreated,
			data:       utils.Payload{"usuario_creado": "Ana"},
			wantKeys: map[string]interface{}{
				"mensaje":        constants.MsgAccountCreated,
				"exito":          true,
				"usuario_creado": "Ana",
			},
		},
		{
			name:       "Nil data",
			statusCode: http.StatusOK,
			message:    constants.MsgOperationSuccess,
			data:       nil,
			wantKeys: map[string]interface{}{
				"mensaje": constants.MsgOperationSuccess,
				"exito":   true,
			},
		},
		{
			name:       "Data cannot override the envelope",
			statusCode: http.StatusOK,
			message:    "ok",
			data:       utils.Payload{"exito": false, "mensaje": "otro"},
			wantKeys: map[string]interface{}{
				"mensaje": "ok",
				"exito":   true,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			utils.Success(rr, tt.statusCode, tt.message, tt.data)

			if rr.Code != tt.statusCode {
				t.Errorf("Success() status = %v, want %v", rr.Code, tt.statusCode)
			}
			if ct := rr.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
				t.Errorf("Success() content type = %v", ct)
			}

			body := decodeBody(t, rr)
			if len(body) != len(tt.wantKeys) {
				t.Errorf("Success() body = %v, want %v", body, tt.wantKeys)
			}
			for k, want := range tt.wantKeys {
				if body[k] != want {
					t.Errorf("Success() body[%q] = %v, want %v", k, body[k], want)
				}
			}
			if _, ok := body["codigo_error"]; ok {
				t.Error("Success() body contains codigo_error")
			}
		})
	}
}

func TestError(t *testing.T) {
	rr := httptest.NewRecorder()

	utils.Error(rr, http.StatusBadRequest, constants.CodeEmptyComment, constants.MsgEmptyComment)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("Error() status = %v, want %v", rr.Code, http.StatusBadRequest)
	}
	body := decodeBody(t, rr)
	if body["exito"] != false {
		t.Errorf("Error() exito = %v, want false", body["exito"])
	}
	if body["codigo_error"] != constants.CodeEmptyComment {
		t.Errorf("Error() codigo_error = %v", body["codigo_error"])
	}
	if body["mensaje"] != constants.MsgEmptyComment {
		t.Errorf("Error() mensaje = %v", body["mensaje"])
	}
}

func TestErrorWithoutCode(t *testing.T) {
	rr := httptest.NewRecorder()

	utils.Error(rr, http.StatusBadRequest, "", "mal")

	body := decodeBody(t, rr)
	if _, ok := body["codigo_error"]; ok {
		t.Error("Error() should omit an empty codigo_error")
	}
}

func TestRespondError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		wantMsg    string
	}{
		{
			name:       "App error",
			err:        utils.NewRecipeNotFoundError("receta-9"),
			wantStatus: http.StatusNotFound,
			wantCode:   constants.CodeRecipeNotFound,
			wantMsg:    constants.MsgRecipeNotFound,
		},
		{
			name:       "Plain error hides details",
			err:        errors.New("open datos/recetas.json: no such file"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   constants.CodeInternalError,
			wantMsg:    constants.MsgInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()

			utils.RespondError(rr, tt.err)

			if rr.Code != tt.wantStatus {
				t.Errorf("RespondError() status = %v, want %v", rr.Code, tt.wantStatus)
			}
			body := decodeBody(t, rr)
			if body["codigo_error"] != tt.wantCode {
				t.Errorf("RespondError() codigo_error = %v, want %v", body["codigo_error"], tt.wantCode)
			}
			if body["mensaje"] != tt.wantMsg {
				t.Errorf("RespondError() mensaje = %v, want %v", body["mensaje"], tt.wantMsg)
			}
			if strings.Contains(rr.Body.String(), "recetas.json") {
				t.Error("RespondError() leaked developer info")
			}
		})
	}
}

func TestSendJSONMarshalFailure(t *testing.T) {
	rr := httptest.NewRecorder()

	utils.SendJSON(rr, http.StatusOK, map[string]interface{}{"bad": make(chan int)})

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("SendJSON() status = %v, want %v", rr.Code, http.StatusInternalServerError)
	}
	body := decodeBody(t, rr)
	if body["codigo_error"] != constants.CodeInternalError {
		t.Errorf("SendJSON() codigo_error = %v", body["codigo_error"])
	}
}

func TestAttachment(t *testing.T) {
	rr := httptest.NewRecorder()
	content := []byte("%PDF-1.3")

	utils.Attachment(rr, constants.ContentTypePDF, "tortilla.pdf", content)

	if rr.Code != http.StatusOK {
		t.Errorf("Attachment() status = %v", rr.Code)
	}
	if got := rr.Header().Get("Content-Type"); got != constants.ContentTypePDF {
		t.Errorf("Attachment() content type = %v", got)
	}
	if got := rr.Header().Get("Content-Disposition"); !strings.Contains(got, `filename="tortilla.pdf"`) {
		t.Errorf("Attachment() content disposition = %v", got)
	}
	if got := rr.Header().Get("Content-Length"); got != "8" {
		t.Errorf("Attachment() content length = %v", got)
	}
	if rr.Body.String() != string(content) {
		t.Errorf("Attachment() body = %q", rr.Body.String())
	}
}

func TestNotFoundAndMethodNotAllowed(t *testing.T) {
	rr := httptest.NewRecorder()
	utils.NotFound(rr, httptest.NewRequest(http.MethodGet, "/nada", nil))
	if rr.Code != http.StatusNotFound {
		t.Errorf("NotFound() status = %v", rr.Code)
	}
	if body := decodeBody(t, rr); body["codigo_error"] != constants.CodeNotFound {
		t.Errorf("NotFound() codigo_error = %v", body["codigo_error"])
	}

	rr = httptest.NewRecorder()
	utils.MethodNotAllowed(rr, httptest.NewRequest(http.MethodPut, "/api/perfil", nil))
	if rr.Code != http.StatusMethodNotAllowed {
		t.Errorf("MethodNotAllowed() status = %v", rr.Code)
	}
	if body := decodeBody(t, rr); body["codigo_error"] != constants.CodeMethodNotAllowed {
		t.Errorf("MethodNotAllowed() codigo_error = %v", body["codigo_error"])
	}
}
