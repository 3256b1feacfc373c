package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"regdesk/internal/audit"
	"regdesk/internal/media"
	"regdesk/internal/registration/models"
	"regdesk/internal/registration/service/mocks"
	dErrors "regdesk/pkg/domain-errors"
	"regdesk/pkg/platform/sentinel"
)

type ServiceSuite struct {
	suite.Suite
	ctrl               *gomock.Controller
	mockRecords        *mocks.MockRecordStore
	mockMedia          *mocks.MockMediaStore
	mockAuditPublisher *mocks.MockAuditPublisher
	service            *Service
}

func (s *ServiceSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())
	s.mockRecords = mocks.NewMockRecordStore(s.ctrl)
	s.mockMedia = mocks.NewMockMediaStore(s.ctrl)
	s.mockAuditPublisher = mocks.NewMockAuditPublisher(s.ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s.service, _ = New(
		s.mockRecords,
		s.mockMedia,
		WithLogger(logger),
		WithAuditPublisher(s.mockAuditPublisher),
	)
}

func (s *ServiceSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestServiceSuite(t *testing.T) {
	suite.Run(t, new(ServiceSuite))
}

func (s *ServiceSuite) newForm() *models.SubmissionForm {
	return &models.SubmissionForm{
		Name:        "Asha Kumar",
		DateOfBirth: time.Date(1992, 4, 17, 0, 0, 0, 0, time.UTC),
		Gender:      models.GenderFemale,
		Mobile:      "9876543210",
		Email:       "asha@example.com",
		Aadhaar:     "123412341234",
		PAN:         "ABCDE1234F",
		Address:     "14 MG Road, Indiranagar",
		State:       "Karnataka",
		City:        "Bengaluru",
		Pincode:     "560038",
		Photo: &models.FileUpload{
			Filename:    "asha.jpg",
			ContentType: "image/jpeg",
			Size:        2048,
			Content:     strings.NewReader("jpeg-bytes"),
		},
		Video: &models.FileUpload{
			Filename:    "asha.mp4",
			ContentType: "video/mp4",
			Size:        4096,
			Content:     strings.NewReader("mp4-bytes"),
		},
	}
}

func (s *ServiceSuite) TestCreate_Success() {
	form := s.newForm()

	s.mockMedia.EXPECT().
		Save(gomock.Any(), media.KindPhoto, gomock.Any()).
		Return("/uploads/photo-1.jpg", nil)
	s.mockMedia.EXPECT().
		Save(gomock.Any(), media.KindVideo, gomock.Any()).
		Return("/uploads/video-1.mp4", nil)
	s.mockRecords.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, reg *models.Registration) error {
			reg.ID = 42
			reg.CreatedAt = time.Now()
			reg.UpdatedAt = reg.CreatedAt
			return nil
		})
	s.mockAuditPublisher.EXPECT().
		Emit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event audit.Event) error {
			s.Equal(audit.ActionSubmissionReceived, event.Action)
			s.Equal(audit.ActorPublic, event.Actor)
			s.Equal(int64(42), event.RegistrationID)
			return nil
		})

	reg, err := s.service.Create(context.Background(), form)
	s.Require().NoError(err)
	s.Equal(int64(42), reg.ID)
	s.Equal("Asha Kumar", reg.Name)
	s.Require().NotNil(reg.ImageURL)
	s.Equal("/uploads/photo-1.jpg", *reg.ImageURL)
	s.Require().NotNil(reg.VideoURL)
	s.Equal("/uploads/video-1.mp4", *reg.VideoURL)
}

func (s *ServiceSuite) TestCreate_InvalidMobile_NoSideEffects() {
	form := s.newForm()
	form.Mobile = "98765"

	// No media or store expectations: validation must reject first.
	reg, err := s.service.Create(context.Background(), form)
	s.Require().Error(err)
	s.Nil(reg)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
}

func (s *ServiceSuite) TestCreate_MissingPhoto() {
	form := s.newForm()
	form.Photo = nil

	_, err := s.service.Create(context.Background(), form)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeValidation))
	s.Contains(err.Error(), "photo is required")
}

func (s *ServiceSuite) TestCreate_PhotoUploadFails_NothingStored() {
	form := s.newForm()

	s.mockMedia.EXPECT().
		Save(gomock.Any(), media.KindPhoto, gomock.Any()).
		Return("", fmt.Errorf("disk full"))

	reg, err := s.service.Create(context.Background(), form)
	s.Require().Error(err)
	s.Nil(reg)
	s.True(dErrors.HasCode(err, dErrors.CodeUploadFailed))
}

func (s *ServiceSuite) TestCreate_VideoUploadFails_NothingStored() {
	form := s.newForm()

	s.mockMedia.EXPECT().
		Save(gomock.Any(), media.KindPhoto, gomock.Any()).
		Return("/uploads/photo-1.jpg", nil)
	s.mockMedia.EXPECT().
		Save(gomock.Any(), media.KindVideo, gomock.Any()).
		Return("", fmt.Errorf("host unreachable"))

	reg, err := s.service.Create(context.Background(), form)
	s.Require().Error(err)
	s.Nil(reg)
	s.True(dErrors.HasCode(err, dErrors.CodeUploadFailed))
}

func (s *ServiceSuite) TestUpdate_PreservesMediaWhenNotResupplied() {
	imageURL := "/uploads/photo-old.jpg"
	videoURL := "/uploads/video-old.mp4"
	existing := &models.Registration{
		ID:       7,
		Name:     "Old Name",
		ImageURL: &imageURL,
		VideoURL: &videoURL,
	}

	form := s.newForm()
	form.Photo = nil
	form.Video = nil

	s.mockRecords.EXPECT().
		FindByID(gomock.Any(), int64(7)).
		Return(existing, nil)
	s.mockRecords.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, reg *models.Registration) error {
			s.Equal("Asha Kumar", reg.Name)
			s.Require().NotNil(reg.ImageURL)
			s.Equal("/uploads/photo-old.jpg", *reg.ImageURL)
			s.Require().NotNil(reg.VideoURL)
			s.Equal("/uploads/video-old.mp4", *reg.VideoURL)
			return nil
		})
	s.mockAuditPublisher.EXPECT().
		Emit(gomock.Any(), gomock.Any()).
		Return(nil)

	reg, err := s.service.Update(context.Background(), 7, form)
	s.Require().NoError(err)
	s.Equal("/uploads/video-old.mp4", *reg.VideoURL)
}

func (s *ServiceSuite) TestUpdate_ReplacesOnlySuppliedSlot() {
	imageURL := "/uploads/photo-old.jpg"
	videoURL := "/uploads/video-old.mp4"
	existing := &models.Registration{ID: 7, ImageURL: &imageURL, VideoURL: &videoURL}

	form := s.newForm()
	form.Video = nil

	s.mockRecords.EXPECT().
		FindByID(gomock.Any(), int64(7)).
		Return(existing, nil)
	s.mockMedia.EXPECT().
		Save(gomock.Any(), media.KindPhoto, gomock.Any()).
		Return("/uploads/photo-new.jpg", nil)
	s.mockRecords.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		Return(nil)
	s.mockAuditPublisher.EXPECT().
		Emit(gomock.Any(), gomock.Any()).
		Return(nil)

	reg, err := s.service.Update(context.Background(), 7, form)
	s.Require().NoError(err)
	s.Equal("/uploads/photo-new.jpg", *reg.ImageURL)
	s.Equal("/uploads/video-old.mp4", *reg.VideoURL)
}

func (s *ServiceSuite) TestUpdate_NotFound() {
	s.mockRecords.EXPECT().
		FindByID(gomock.Any(), int64(99)).
		Return(nil, fmt.Errorf("registration 99: %w", sentinel.ErrNotFound))

	reg, err := s.service.Update(context.Background(), 99, s.newForm())
	s.Require().Error(err)
	s.Nil(reg)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestGet_NotFound() {
	s.mockRecords.EXPECT().
		FindByID(gomock.Any(), int64(404)).
		Return(nil, fmt.Errorf("registration 404: %w", sentinel.ErrNotFound))

	_, err := s.service.Get(context.Background(), 404)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestDelete_Success() {
	s.mockRecords.EXPECT().
		Delete(gomock.Any(), int64(5)).
		Return(nil)
	s.mockAuditPublisher.EXPECT().
		Emit(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, event audit.Event) error {
			s.Equal(audit.ActionRegistrationDeleted, event.Action)
			return nil
		})

	s.Require().NoError(s.service.Delete(context.Background(), 5))
}

func (s *ServiceSuite) TestDelete_MissingID() {
	s.mockRecords.EXPECT().
		Delete(gomock.Any(), int64(123)).
		Return(fmt.Errorf("registration 123: %w", sentinel.ErrNotFound))

	err := s.service.Delete(context.Background(), 123)
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))
}

func (s *ServiceSuite) TestList_PaginationMetadata() {
	records := []*models.Registration{{ID: 3}, {ID: 2}, {ID: 1}}
	s.mockRecords.EXPECT().
		List(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(records, int64(25), nil)

	regs, pagination, err := s.service.List(context.Background(), models.Filter{}, models.Page{Number: 3, Size: 10})
	s.Require().NoError(err)
	s.Len(regs, 3)
	s.Equal(int64(25), pagination.Total)
	s.Equal(3, pagination.Page)
	s.Equal(10, pagination.Limit)
	s.Equal(3, pagination.TotalPages)
}

func (s *ServiceSuite) TestList_DefaultsPageAndSize() {
	s.mockRecords.EXPECT().
		List(gomock.Any(), gomock.Any(), models.Page{Number: 1, Size: models.DefaultPageSize}).
		Return([]*models.Registration{}, int64(0), nil)

	_, pagination, err := s.service.List(context.Background(), models.Filter{}, models.Page{Number: 0, Size: 0})
	s.Require().NoError(err)
	s.Equal(1, pagination.Page)
	s.Equal(models.DefaultPageSize, pagination.Limit)
	s.Equal(0, pagination.TotalPages)
}

func (s *ServiceSuite) TestList_StoreError() {
	s.mockRecords.EXPECT().
		List(gomock.Any(), gomock.Any(), gomock.Any()).
		Return(nil, int64(0), errors.New("connection reset"))

	_, _, err := s.service.List(context.Background(), models.Filter{}, models.Page{Number: 1, Size: 10})
	s.Require().Error(err)
	s.True(dErrors.HasCode(err, dErrors.CodeInternal))
}

func (s *ServiceSuite) TestFilterOptions() {
	s.mockRecords.EXPECT().
		DistinctStates(gomock.Any()).
		Return([]string{"Karnataka", "Kerala"}, nil)
	s.mockRecords.EXPECT().
		DistinctCities(gomock.Any(), "Karnataka").
		Return([]string{"Bengaluru", "Mysuru"}, nil)

	states, cities, err := s.service.FilterOptions(context.Background(), "Karnataka")
	s.Require().NoError(err)
	s.Equal([]string{"Karnataka", "Kerala"}, states)
	s.Equal([]string{"Bengaluru", "Mysuru"}, cities)
}

func (s *ServiceSuite) TestFilterOptions_EmptyStore() {
	s.mockRecords.EXPECT().DistinctStates(gomock.Any()).Return(nil, nil)
	s.mockRecords.EXPECT().DistinctCities(gomock.Any(), "").Return(nil, nil)

	states, cities, err := s.service.FilterOptions(context.Background(), "")
	s.Require().NoError(err)
	s.NotNil(states)
	s.NotNil(cities)
	s.Empty(states)
	s.Empty(cities)
}
