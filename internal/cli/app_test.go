package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecoleta/ecoleta-backend/internal/client"
	"github.com/ecoleta/ecoleta-backend/internal/generators"
	"github.com/ecoleta/ecoleta-backend/internal/session"
)

func writeEnvelope(w http.ResponseWriter, status int, success bool, message string, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	body := map[string]any{"success": success, "message": message}
	if data != nil {
		body["data"] = data
	}
	_ = json.NewEncoder(w).Encode(body)
}

type fakeAPI struct {
	cepStatus  int
	registered generators.RegisterRequest
}

func (f *fakeAPI) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/cep/", func(w http.ResponseWriter, r *http.Request) {
		if f.cepStatus != http.StatusOK {
			writeEnvelope(w, f.cepStatus, false, "postal code not found", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, true, "address found", map[string]string{
			"cep": "01001000", "rua": "Praça da Sé", "bairro": "Sé", "cidade": "São Paulo", "estado": "SP",
		})
	})
	mux.HandleFunc("/api/cadastro_gerador", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&f.registered))
		writeEnvelope(w, http.StatusOK, true, generators.RegisteredMessage, map[string]any{
			"id": 21, "email": f.registered.Email, "nome": f.registered.Name,
		})
	})
	mux.HandleFunc("/api/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["senha"] != "secret" {
			writeEnvelope(w, http.StatusBadRequest, false, "invalid email or password", nil)
			return
		}
		writeEnvelope(w, http.StatusOK, true, "login successful", map[string]any{
			"id": 21, "email": body["email"], "nome": "Ana", "foto": "a.png", "status": "pending",
		})
	})
	return mux
}

type harness struct {
	app     *App
	out     *bytes.Buffer
	errOut  *bytes.Buffer
	session *session.Session
	api     *fakeAPI
}

func newHarness(t *testing.T, stdin string) *harness {
	t.Helper()
	api := &fakeAPI{cepStatus: http.StatusOK}
	srv := httptest.NewServer(api.handler(t))
	t.Cleanup(srv.Close)

	h := &harness{
		out:     &bytes.Buffer{},
		errOut:  &bytes.Buffer{},
		session: session.New(session.NewMemoryBackend()),
		api:     api,
	}
	h.app = NewApp(Params{
		API:          client.New(srv.URL),
		Session:      h.session,
		In:           strings.NewReader(stdin),
		Out:          h.out,
		ErrOut:       h.errOut,
		ReadPassword: func() (string, error) { return "secret", nil },
	})
	return h
}

func TestRegisterAutofillsAddressAndWritesSession(t *testing.T) {
	h := newHarness(t, "")
	code := h.app.Run(context.Background(), []string{
		"register",
		"-email", "ana@example.com", "-nome", "Ana", "-cpf", "52998224725",
		"-telefone", "11987654321", "-nasc", "1990-05-01",
		"-cep", "01001-000", "-numero", "10",
	})
	require.Equal(t, 0, code, h.errOut.String())

	got := h.api.registered
	require.NotNil(t, got.Address)
	assert.Equal(t, "Praça da Sé", got.Address.Street)
	assert.Equal(t, "Sé", got.Address.Neighborhood)
	assert.Equal(t, "São Paulo", got.Address.City)
	assert.Equal(t, "SP", got.Address.State)
	assert.Equal(t, "10", got.Address.Number)
	assert.Equal(t, "secret", got.Password)

	user, err := h.session.Read()
	require.NoError(t, err)
	require.NotNil(t, user)
	assert.Equal(t, uint(21), user.ID)
	assert.Equal(t, "pending", user.Status)
	assert.Contains(t, h.out.String(), generators.RegisteredMessage)
}

func TestRegisterKeepsExplicitFieldsAndPromptsAfterLookupFailure(t *testing.T) {
	h := newHarness(t, "Rua Nova\nCentro\nRecife\nPE\n")
	h.api.cepStatus = http.StatusNotFound

	code := h.app.Run(context.Background(), []string{
		"register",
		"-email", "ana@example.com", "-nome", "Ana", "-cpf", "52998224725",
		"-telefone", "11987654321", "-nasc", "1990-05-01",
		"-cep", "99999999", "-numero", "1",
	})
	require.Equal(t, 0, code, h.errOut.String())

	assert.Contains(t, h.errOut.String(), "warning: postal code not found")
	assert.Equal(t, "Rua Nova", h.api.registered.Address.Street)
	assert.Equal(t, "PE", h.api.registered.Address.State)
}

func TestLoginWhoamiLogout(t *testing.T) {
	h := newHarness(t, "ana@example.com\n")
	ctx := context.Background()

	require.Equal(t, 0, h.app.Run(ctx, []string{"login"}), h.errOut.String())
	assert.True(t, h.session.LoggedIn())

	h.out.Reset()
	require.Equal(t, 0, h.app.Run(ctx, []string{"whoami"}))
	assert.Contains(t, h.out.String(), "Ana <ana@example.com> id=21 status=pending")

	require.Equal(t, 0, h.app.Run(ctx, []string{"logout"}))
	assert.False(t, h.session.LoggedIn())

	h.out.Reset()
	require.Equal(t, 0, h.app.Run(ctx, []string{"whoami"}))
	assert.Contains(t, h.out.String(), "not logged in")
}

func TestLoginFailureLeavesSessionEmpty(t *testing.T) {
	h := newHarness(t, "")
	h.app.readPassword = func() (string, error) { return "wrong", nil }

	code := h.app.Run(context.Background(), []string{"login", "-email", "ana@example.com"})
	assert.Equal(t, 1, code)
	assert.Contains(t, h.errOut.String(), "invalid email or password")
	assert.False(t, h.session.LoggedIn())
}

func TestCepCommand(t *testing.T) {
	h := newHarness(t, "")
	require.Equal(t, 0, h.app.Run(context.Background(), []string{"cep", "01001000"}))
	assert.Contains(t, h.out.String(), "Praça da Sé, Sé - São Paulo/SP")

	assert.Equal(t, 2, h.app.Run(context.Background(), []string{"cep"}))
}

func TestUnknownCommand(t *testing.T) {
	h := newHarness(t, "")
	assert.Equal(t, 2, h.app.Run(context.Background(), []string{"collect"}))
	assert.Equal(t, 2, h.app.Run(context.Background(), nil))
	assert.Contains(t, h.errOut.String(), "usage: ecoleta")
}

func TestPhotoDataURI(t *testing.T) {
	dir := t.TempDir()

	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	pngPath := filepath.Join(dir, "me.png")
	require.NoError(t, os.WriteFile(pngPath, buf.Bytes(), 0o600))

	uri, err := photoDataURI(pngPath)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(uri, "data:image/png;base64,"))

	txtPath := filepath.Join(dir, "me.txt")
	require.NoError(t, os.WriteFile(txtPath, []byte("not an image"), 0o600))
	_, err = photoDataURI(txtPath)
	assert.Error(t, err)
}
