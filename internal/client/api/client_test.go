package api

import (
	"context"
	"io"
	"mime"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestGet_DecodesDataAndPagination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/jobs", r.URL.Path)
		require.Equal(t, "2", r.URL.Query().Get("page"))
		require.Equal(t, "application/json", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/json")
		io.WriteString(w, `{"success":true,"data":[{"id":"j1"},{"id":"j2"}],
			"meta":{"pagination":{"page":2,"total":9,"totalPages":5}}}`)
	}))
	defer srv.Close()

	c := New(srv.URL)

	var out []struct {
		ID string `json:"id"`
	}
	q := url.Values{}
	q.Set("page", "2")
	pg, err := c.Get(context.Background(), "/jobs", q, &out)

	require.NoError(t, err)
	require.NotNil(t, pg)
	require.Equal(t, Pagination{Page: 2, Total: 9, TotalPages: 5}, *pg)
	require.Len(t, out, 2)
	require.Equal(t, "j1", out[0].ID)
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("Authorization")
		io.WriteString(w, `{"success":true}`)
	}))
	defer srv.Close()

	c := New(srv.URL, WithTokenSource(TokenSourceFunc(func() string { return "tok-123" })))
	_, err := c.Get(context.Background(), "/auth/me", nil, nil)
	require.NoError(t, err)
	require.Equal(t, "Bearer tok-123", got)

	// empty token means no header
	c.SetTokenSource(TokenSourceFunc(func() string { return "" }))
	_, err = c.Get(context.Background(), "/auth/me", nil, nil)
	require.NoError(t, err)
	require.Empty(t, got)
}

func TestDo_NormalizesHTTPErrors(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"403 with envelope", http.StatusForbidden, `{"success":false,"error":"admin role required"}`, "admin role required"},
		{"404 plain", http.StatusNotFound, `not found`, "Not Found"},
		{"429", http.StatusTooManyRequests, `{"success":false,"error":"slow down"}`, "slow down"},
		{"500", http.StatusInternalServerError, ``, "Internal Server Error"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			err := New(srv.URL).Post(context.Background(), "/x", nil, nil)

			var ae *Error
			require.ErrorAs(t, err, &ae)
			require.Equal(t, tc.status, ae.Status)
			require.Empty(t, ae.Code, "server-produced failures carry no transport code")
			require.Equal(t, tc.wantMsg, ae.Message)
			require.True(t, IsStatus(err, tc.status))
			require.False(t, IsTransport(err))
		})
	}
}

func TestDo_422FieldErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		io.WriteString(w, `{"success":false,"error":"validation failed",
			"errors":{"name":["name is required"],"locations":["select at least one location"]}}`)
	}))
	defer srv.Close()

	err := New(srv.URL).Post(context.Background(), "/admin/companies", map[string]string{}, nil)

	require.True(t, IsStatus(err, http.StatusUnprocessableEntity))
	fe := FieldErrors(err)
	require.Equal(t, []string{"name is required"}, fe["name"])
	require.Equal(t, []string{"select at least one location"}, fe["locations"])
}

func TestDo_BusinessRejectionOn2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `{"success":false,"error":"insufficient credits","userCredits":0}`)
	}))
	defer srv.Close()

	err := New(srv.URL).Post(context.Background(), "/contacts/unlock", nil, nil)

	var ae *Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, http.StatusOK, ae.Status)
	require.Equal(t, "insufficient credits", ae.Message)
	require.Contains(t, string(ae.Body), `"userCredits":0`)
}

func TestDo_401NotifiesEveryObserverOnce(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		io.WriteString(w, `{"success":false,"error":"token expired"}`)
	}))
	defer srv.Close()

	c := New(srv.URL)
	var a, b atomic.Int32
	c.OnUnauthorized(func() { a.Add(1) })
	c.OnUnauthorized(func() { b.Add(1) })

	err := c.Post(context.Background(), "/anything", nil, nil)

	require.True(t, IsStatus(err, http.StatusUnauthorized))
	require.Equal(t, int32(1), a.Load())
	require.Equal(t, int32(1), b.Load())
}

func TestDo_TimeoutDistinctFromNetworkError(t *testing.T) {
	slow := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer slow.Close()

	c := New(slow.URL, WithTimeout(20*time.Millisecond))
	_, err := c.Get(context.Background(), "/slow", nil, nil)
	require.True(t, IsTimeout(err))
	require.False(t, IsNetwork(err))

	// connection never established
	dead := New("http://127.0.0.1:1")
	_, err = dead.Get(context.Background(), "/x", nil, nil)
	require.True(t, IsNetwork(err))
	require.False(t, IsTimeout(err))
}

func TestDo_UndecodableSuccessBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, `<html>gateway error page</html>`)
	}))
	defer srv.Close()

	_, err := New(srv.URL).Get(context.Background(), "/jobs", nil, nil)

	var ae *Error
	require.ErrorAs(t, err, &ae)
	require.Equal(t, CodeUnknown, ae.Code)
}

func TestUpload_MultipartFieldsAndFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
		require.NoError(t, err)
		require.Equal(t, "multipart/form-data", mt)

		require.NoError(t, r.ParseMultipartForm(4<<20))
		require.Equal(t, "Acme", r.FormValue("name"))

		f, hdr, err := r.FormFile("logo")
		require.NoError(t, err)
		defer f.Close()
		require.Equal(t, "logo.png", hdr.Filename)
		require.Equal(t, "image/png", hdr.Header.Get("Content-Type"))
		data, _ := io.ReadAll(f)
		require.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data)

		io.WriteString(w, `{"success":true,"data":{"id":"co1"}}`)
	}))
	defer srv.Close()

	var out struct {
		ID string `json:"id"`
	}
	err := New(srv.URL).Upload(context.Background(), http.MethodPost, "/admin/companies",
		map[string]string{"name": "Acme"},
		UploadFile{Field: "logo", Name: "logo.png", ContentType: "image/png", Data: []byte{0x89, 'P', 'N', 'G'}},
		&out)

	require.NoError(t, err)
	require.Equal(t, "co1", out.ID)
}
