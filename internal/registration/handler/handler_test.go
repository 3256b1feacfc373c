package handler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mediamem "regdesk/internal/media/memory"
	"regdesk/internal/registration/models"
	"regdesk/internal/registration/service"
	"regdesk/internal/registration/store"
)

type fixture struct {
	router  chi.Router
	records *store.InMemoryStore
	media   *mediamem.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	records := store.NewInMemory()
	mediaStore := mediamem.New()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	svc, err := service.New(records, mediaStore, service.WithLogger(logger))
	require.NoError(t, err)

	h := New(svc, logger)
	r := chi.NewRouter()
	h.RegisterPublic(r)
	h.RegisterDashboard(r)

	return &fixture{router: r, records: records, media: mediaStore}
}

func (f *fixture) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

// submissionFields returns a complete valid field set.
func submissionFields() map[string]string {
	return map[string]string{
		"name":        "Asha Kumar",
		"dateOfBirth": "1992-04-17",
		"gender":      "female",
		"mobile":      "9876543210",
		"email":       "asha@example.com",
		"aadhaar":     "123412341234",
		"pan":         "ABCDE1234F",
		"address":     "14 MG Road, Indiranagar",
		"state":       "Karnataka",
		"city":        "Bengaluru",
		"pincode":     "560038",
	}
}

type filePart struct {
	field       string
	filename    string
	contentType string
	content     string
}

func photoPart() filePart {
	return filePart{field: "photo", filename: "asha.jpg", contentType: "image/jpeg", content: "jpeg-bytes"}
}

func videoPart() filePart {
	return filePart{field: "video", filename: "asha.mp4", contentType: "video/mp4", content: "mp4-bytes"}
}

func multipartBody(t *testing.T, fields map[string]string, files ...filePart) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}
	for _, file := range files {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name=%q; filename=%q`, file.field, file.filename))
		header.Set("Content-Type", file.contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = io.Copy(part, strings.NewReader(file.content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return &buf, writer.FormDataContentType()
}

func (f *fixture) submit(t *testing.T, fields map[string]string, files ...filePart) *httptest.ResponseRecorder {
	t.Helper()
	body, contentType := multipartBody(t, fields, files...)
	req := httptest.NewRequest(http.MethodPost, "/register", body)
	req.Header.Set("Content-Type", contentType)
	return f.do(req)
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

func TestHandleSubmit_Created(t *testing.T) {
	f := newFixture(t)

	rec := f.submit(t, submissionFields(), photoPart(), videoPart())
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeJSON[models.RegistrationResponse](t, rec)
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Registration)
	assert.Equal(t, int64(1), resp.Registration.ID)
	assert.Equal(t, "Asha Kumar", resp.Registration.Name)
	require.NotNil(t, resp.Registration.ImageURL)
	require.NotNil(t, resp.Registration.VideoURL)
	assert.Equal(t, 2, f.media.Count())
}

func TestHandleSubmit_InvalidMobile(t *testing.T) {
	f := newFixture(t)

	fields := submissionFields()
	fields["mobile"] = "98765"

	rec := f.submit(t, fields, photoPart(), videoPart())
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "mobile must be exactly 10 characters", resp.Error)
	assert.Equal(t, 0, f.records.Len())
	assert.Equal(t, 0, f.media.Count())
}

func TestHandleSubmit_MissingVideo(t *testing.T) {
	f := newFixture(t)

	rec := f.submit(t, submissionFields(), photoPart())
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, f.records.Len())
}

func TestHandleSubmit_UploadFailureLeavesNoRecord(t *testing.T) {
	f := newFixture(t)
	f.media.FailWith(fmt.Errorf("disk full"))

	rec := f.submit(t, submissionFields(), photoPart(), videoPart())
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp struct {
		Success bool   `json:"success"`
		Error   string `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, 0, f.records.Len())
}

func TestHandleSubmit_NotMultipart(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := f.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUpdate_RequiresID(t *testing.T) {
	f := newFixture(t)

	body, contentType := multipartBody(t, submissionFields())
	req := httptest.NewRequest(http.MethodPut, "/register", body)
	req.Header.Set("Content-Type", contentType)
	rec := f.do(req)
	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandleUpdate_PreservesMedia(t *testing.T) {
	f := newFixture(t)

	created := decodeJSON[models.RegistrationResponse](t,
		f.submit(t, submissionFields(), photoPart(), videoPart()))
	require.NotNil(t, created.Registration)
	originalVideo := *created.Registration.VideoURL

	fields := submissionFields()
	fields["city"] = "Mysuru"
	body, contentType := multipartBody(t, fields) // no attachments
	req := httptest.NewRequest(http.MethodPut,
		fmt.Sprintf("/register?id=%d", created.Registration.ID), body)
	req.Header.Set("Content-Type", contentType)

	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	updated := decodeJSON[models.RegistrationResponse](t, rec)
	require.NotNil(t, updated.Registration)
	assert.Equal(t, "Mysuru", updated.Registration.City)
	require.NotNil(t, updated.Registration.VideoURL)
	assert.Equal(t, originalVideo, *updated.Registration.VideoURL)
}

func TestHandleUpdate_UnknownID(t *testing.T) {
	f := newFixture(t)

	body, contentType := multipartBody(t, submissionFields())
	req := httptest.NewRequest(http.MethodPut, "/register?id=999", body)
	req.Header.Set("Content-Type", contentType)
	rec := f.do(req)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleDashboard_SingleRecord(t *testing.T) {
	f := newFixture(t)

	created := decodeJSON[models.RegistrationResponse](t,
		f.submit(t, submissionFields(), photoPart(), videoPart()))

	req := httptest.NewRequest(http.MethodGet,
		fmt.Sprintf("/dashboard?id=%d", created.Registration.ID), nil)
	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[models.RegistrationResponse](t, rec)
	assert.Equal(t, created.Registration.ID, resp.Registration.ID)
}

func TestHandleDashboard_UnknownID(t *testing.T) {
	f := newFixture(t)

	rec := f.do(httptest.NewRequest(http.MethodGet, "/dashboard?id=42", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleDashboard_ListWithPagination(t *testing.T) {
	f := newFixture(t)

	for i := 0; i < 25; i++ {
		fields := submissionFields()
		fields["name"] = fmt.Sprintf("Person %02d", i)
		rec := f.submit(t, fields, photoPart(), videoPart())
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	rec := f.do(httptest.NewRequest(http.MethodGet, "/dashboard?page=3", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[models.PageResponse](t, rec)
	assert.True(t, resp.Success)
	assert.Len(t, resp.Data, 5)
	assert.Equal(t, int64(25), resp.Pagination.Total)
	assert.Equal(t, 3, resp.Pagination.Page)
	assert.Equal(t, 10, resp.Pagination.Limit)
	assert.Equal(t, 3, resp.Pagination.TotalPages)
}

func TestHandleDashboard_SearchAndFilters(t *testing.T) {
	f := newFixture(t)

	first := submissionFields()
	rec := f.submit(t, first, photoPart(), videoPart())
	require.Equal(t, http.StatusCreated, rec.Code)

	second := submissionFields()
	second["name"] = "Ravi Menon"
	second["mobile"] = "9000000001"
	second["aadhaar"] = "999912341234"
	second["state"] = "Kerala"
	second["city"] = "Kochi"
	second["gender"] = "male"
	rec = f.submit(t, second, photoPart(), videoPart())
	require.Equal(t, http.StatusCreated, rec.Code)

	// Case-insensitive name search matches only the first record.
	resp := decodeJSON[models.PageResponse](t,
		f.do(httptest.NewRequest(http.MethodGet, "/dashboard?search=asha", nil)))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Asha Kumar", resp.Data[0].Name)

	// Mobile substring search.
	resp = decodeJSON[models.PageResponse](t,
		f.do(httptest.NewRequest(http.MethodGet, "/dashboard?search=9000000", nil)))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Ravi Menon", resp.Data[0].Name)

	// Exact state+gender filter combined with AND.
	resp = decodeJSON[models.PageResponse](t,
		f.do(httptest.NewRequest(http.MethodGet, "/dashboard?state=Kerala&gender=male", nil)))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, "Ravi Menon", resp.Data[0].Name)

	// Mismatched AND combination returns nothing.
	resp = decodeJSON[models.PageResponse](t,
		f.do(httptest.NewRequest(http.MethodGet, "/dashboard?state=Kerala&gender=female", nil)))
	assert.Len(t, resp.Data, 0)
	assert.Equal(t, int64(0), resp.Pagination.Total)
}

func TestHandleDelete(t *testing.T) {
	f := newFixture(t)

	created := decodeJSON[models.RegistrationResponse](t,
		f.submit(t, submissionFields(), photoPart(), videoPart()))

	req := httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/dashboard?id=%d", created.Registration.ID), nil)
	rec := f.do(req)
	require.Equal(t, http.StatusOK, rec.Code)

	resp := decodeJSON[models.MessageResponse](t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, 0, f.records.Len())

	// Second delete of the same ID reports not found.
	rec = f.do(httptest.NewRequest(http.MethodDelete,
		fmt.Sprintf("/dashboard?id=%d", created.Registration.ID), nil))
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandleFilterOptions(t *testing.T) {
	f := newFixture(t)

	rec := f.submit(t, submissionFields(), photoPart(), videoPart())
	require.Equal(t, http.StatusCreated, rec.Code)

	second := submissionFields()
	second["state"] = "Kerala"
	second["city"] = "Kochi"
	rec = f.submit(t, second, photoPart(), videoPart())
	require.Equal(t, http.StatusCreated, rec.Code)

	resp := decodeJSON[models.FilterOptionsResponse](t,
		f.do(httptest.NewRequest(http.MethodGet, "/dashboard/filters", nil)))
	assert.True(t, resp.Success)
	assert.Equal(t, []string{"Karnataka", "Kerala"}, resp.States)
	assert.Equal(t, []string{"Bengaluru", "Kochi"}, resp.Cities)

	resp = decodeJSON[models.FilterOptionsResponse](t,
		f.do(httptest.NewRequest(http.MethodGet, "/dashboard/filters?state=Kerala", nil)))
	assert.Equal(t, []string{"Kochi"}, resp.Cities)
}

// Keep the fixture honest: the handler never needs more of the service than
// the interface it declares.
var _ Service = (*service.Service)(nil)
