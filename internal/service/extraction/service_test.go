package extraction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/lantabur/internal/domain/models"
	"github.com/mamadbah2/lantabur/pkg/clients/anthropic"
)

type aiMock struct {
	mock.Mock
}

func (m *aiMock) ExtractJSON(ctx context.Context, req anthropic.ExtractionRequest) ([]byte, error) {
	args := m.Called(ctx, req)
	out, _ := args.Get(0).([]byte)
	return out, args.Error(1)
}

var pdf = Document{Name: "report.pdf", MimeType: "application/pdf", Data: []byte("%PDF-1.7 ...")}

func newTestService(ai anthropic.Client) *Service {
	s := NewService(ai, nil, nil)
	s.now = func() time.Time { return time.Date(2024, time.March, 5, 14, 0, 0, 0, time.UTC) }
	return s
}

func TestExtractProductionMapsPayload(t *testing.T) {
	ai := &aiMock{}
	ai.On("ExtractJSON", mock.Anything, mock.MatchedBy(func(req anthropic.ExtractionRequest) bool {
		return req.MimeType == "application/pdf" && req.SystemPrompt == productionSystemPrompt
	})).Return([]byte(`{
		"date": "15 Jan 2024",
		"lantabur": {"total": "12,500.5", "loadingCap": 87, "inhouse": 10000, "subContract": 2500.5,
			"colorGroups": [{"groupName": "Black", "weight": 4000}, {"groupName": " ", "weight": 1}, {"groupName": "Double Part", "weight": "500"}]},
		"taqwa": {"total": 7500}
	}`), nil)

	rec, err := newTestService(ai).ExtractProduction(context.Background(), pdf)
	require.NoError(t, err)

	assert.Empty(t, rec.ID)
	assert.Equal(t, "15 Jan 2024", rec.Date)
	assert.Equal(t, 12500.5, rec.Lantabur.Total)
	assert.Equal(t, models.UnitLantabur, rec.Lantabur.Name)
	assert.Equal(t, []models.ColorGroup{{GroupName: "Black", Weight: 4000}, {GroupName: "Double Part", Weight: 500}}, rec.Lantabur.ColorGroups)
	assert.Equal(t, 7500.0, rec.Taqwa.Total)
	assert.Empty(t, rec.Taqwa.ColorGroups)
	assert.Equal(t, 20000.5, rec.TotalProduction)
	ai.AssertExpectations(t)
}

func TestExtractProductionDefaultsDateToToday(t *testing.T) {
	ai := &aiMock{}
	ai.On("ExtractJSON", mock.Anything, mock.Anything).Return([]byte(`{"date": ""}`), nil)

	rec, err := newTestService(ai).ExtractProduction(context.Background(), pdf)
	require.NoError(t, err)
	assert.Equal(t, "05 Mar 2024", rec.Date)
	assert.Zero(t, rec.TotalProduction)
}

func TestExtractRFTBuildsDraft(t *testing.T) {
	ai := &aiMock{}
	ai.On("ExtractJSON", mock.Anything, mock.Anything).Return([]byte(`{
		"date": "01/02/2024",
		"entries": [
			{"batchNo": "B1", "dyeingType": "B/D CARD", "shadeOk": true, "fQty": 500, "shiftUnload": "YOUSUF"},
			{"batchNo": "B2", "dyeingType": "B/D CARD", "shadeOk": true, "shadeNotOk": true, "fQty": 300, "shiftUnload": "HUMAYUN"},
			{"batchNo": "B3", "dyeingType": "LAB", "shadeOk": true, "fQty": 20, "shiftUnload": "YOUSUF"},
			{"batchNo": "B4", "dyeingType": "LAB", "fQty": 10}
		],
		"bulkRftPercent": 75
	}`), nil)

	rec, err := newTestService(ai).ExtractRFT(context.Background(), pdf)
	require.NoError(t, err)

	assert.Empty(t, rec.ID)
	assert.Equal(t, models.DefaultRFTUnit, rec.Unit)
	assert.Equal(t, models.DefaultRFTCompany, rec.CompanyName)
	require.Len(t, rec.Entries, 4)
	assert.Equal(t, models.ShadeOk, rec.Entries[0].Shade)
	assert.Equal(t, models.ShadeNotOk, rec.Entries[1].Shade)
	assert.Equal(t, models.ShadePending, rec.Entries[3].Shade)
	assert.Equal(t, 50.0, rec.BulkRFTPercent)
	assert.Equal(t, 50.0, rec.LabRFTPercent)
	assert.Equal(t, models.OperatorFigures{Yousuf: 520, Humayun: 300}, rec.ShiftPerformance)
	assert.Equal(t, models.OperatorFigures{Yousuf: 2, Humayun: 1}, rec.ShiftCount)
}

func TestExtractRejectsBadInput(t *testing.T) {
	ai := &aiMock{}
	svc := newTestService(ai)
	ctx := context.Background()

	_, err := svc.ExtractProduction(ctx, Document{MimeType: "application/pdf"})
	assert.ErrorIs(t, err, ErrEmptyDocument)

	_, err = svc.ExtractProduction(ctx, Document{MimeType: "text/csv", Data: []byte("a,b")})
	assert.ErrorIs(t, err, ErrUnsupportedFileType)

	_, err = NewService(nil, nil, nil).ExtractRFT(ctx, pdf)
	assert.ErrorIs(t, err, ErrExtractionDisabled)

	ai.AssertNotCalled(t, "ExtractJSON", mock.Anything, mock.Anything)
}

func TestExtractPropagatesClientErrors(t *testing.T) {
	ai := &aiMock{}
	ai.On("ExtractJSON", mock.Anything, mock.Anything).Return(nil, errors.New("overloaded")).Once()
	ai.On("ExtractJSON", mock.Anything, mock.Anything).Return([]byte(`not json`), nil).Once()
	svc := newTestService(ai)

	_, err := svc.ExtractProduction(context.Background(), pdf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "overloaded")

	_, err = svc.ExtractProduction(context.Background(), pdf)
	assert.ErrorIs(t, err, ErrMalformedResponse)
}

func TestDetectMimeType(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

	cases := []struct {
		name string
		doc  Document
		want string
		err  error
	}{
		{name: "declared pdf", doc: Document{MimeType: "application/pdf"}, want: "application/pdf"},
		{name: "params stripped", doc: Document{MimeType: "image/png; charset=binary"}, want: "image/png"},
		{name: "jpg alias", doc: Document{MimeType: "image/jpg"}, want: "image/jpeg"},
		{name: "sniffed", doc: Document{MimeType: "application/octet-stream", Data: png}, want: "image/png"},
		{name: "sniffed pdf", doc: Document{Data: []byte("%PDF-1.4\n")}, want: "application/pdf"},
		{name: "unsupported", doc: Document{MimeType: "image/gif"}, err: ErrUnsupportedFileType},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DetectMimeType(tc.doc)
			if tc.err != nil {
				assert.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
