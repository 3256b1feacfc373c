package handler

import (
	"mime/multipart"
	"net/http"
	"time"

	"regdesk/internal/registration/models"
	dErrors "regdesk/pkg/domain-errors"
)

const (
	// maxSubmissionBytes bounds the whole multipart body: both attachments at
	// their ceilings plus headroom for the text fields.
	maxSubmissionBytes = models.MaxPhotoBytes + models.MaxVideoBytes + 1<<20

	// multipartMemoryBytes is the in-memory threshold before parts spill to
	// temp files.
	multipartMemoryBytes = 4 << 20
)

// dateOfBirthLayout matches the HTML date input format.
const dateOfBirthLayout = "2006-01-02"

// parseSubmission decodes a multipart registration submission into a typed
// form. The returned cleanup removes any temp files the parser spilled to
// disk and must be called once the attachments have been consumed.
func parseSubmission(w http.ResponseWriter, r *http.Request) (*models.SubmissionForm, func(), error) {
	noop := func() {}

	r.Body = http.MaxBytesReader(w, r.Body, maxSubmissionBytes)
	if err := r.ParseMultipartForm(multipartMemoryBytes); err != nil {
		return nil, noop, dErrors.Wrap(err, dErrors.CodeBadRequest, "request must be a multipart form")
	}
	cleanup := func() {
		if r.MultipartForm != nil {
			_ = r.MultipartForm.RemoveAll()
		}
	}

	form := &models.SubmissionForm{
		Name:    r.FormValue("name"),
		Gender:  models.Gender(r.FormValue("gender")),
		Mobile:  r.FormValue("mobile"),
		Email:   r.FormValue("email"),
		Aadhaar: r.FormValue("aadhaar"),
		PAN:     r.FormValue("pan"),
		Address: r.FormValue("address"),
		State:   r.FormValue("state"),
		City:    r.FormValue("city"),
		Pincode: r.FormValue("pincode"),
	}

	if raw := r.FormValue("dateOfBirth"); raw != "" {
		dob, err := time.Parse(dateOfBirthLayout, raw)
		if err != nil {
			cleanup()
			return nil, noop, dErrors.New(dErrors.CodeValidation, "dateOfBirth must use the YYYY-MM-DD format")
		}
		form.DateOfBirth = dob
	}

	photo, err := formFile(r, "photo")
	if err != nil {
		cleanup()
		return nil, noop, err
	}
	form.Photo = photo

	video, err := formFile(r, "video")
	if err != nil {
		cleanup()
		return nil, noop, err
	}
	form.Video = video

	return form, cleanup, nil
}

// formFile extracts one optional file part. The part's declared Content-Type
// header is carried through for validation against the allowed media types.
func formFile(r *http.Request, field string) (*models.FileUpload, error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile {
			return nil, nil
		}
		return nil, dErrors.Wrap(err, dErrors.CodeBadRequest, "invalid "+field+" attachment")
	}
	return &models.FileUpload{
		Filename:    header.Filename,
		ContentType: partContentType(header),
		Size:        header.Size,
		Content:     file,
	}, nil
}

func partContentType(header *multipart.FileHeader) string {
	return header.Header.Get("Content-Type")
}
