package sheets

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/lantabur/internal/domain/models"
	"github.com/mamadbah2/lantabur/internal/service/reporting"
)

type writerMock struct {
	mock.Mock
}

func (m *writerMock) WriteRow(ctx context.Context, sheetRange string, values []interface{}) error {
	return m.Called(ctx, sheetRange, values).Error(0)
}

func TestProductionRowLayout(t *testing.T) {
	rec := models.ProductionRecord{
		ID:   "a",
		Date: "2024-01-15",
		Lantabur: models.IndustryData{
			Total: 100, Inhouse: 60, SubContract: 40,
			ColorGroups: []models.ColorGroup{{GroupName: "Black", Weight: 70}, {GroupName: "Double Part -Black", Weight: 30}},
		},
		Taqwa: models.IndustryData{
			Total: 50, Inhouse: 50,
			ColorGroups: []models.ColorGroup{{GroupName: "Black", Weight: 20}, {GroupName: "Double Part", Weight: 30}},
		},
		TotalProduction: 150,
	}

	row := ProductionRow(rec)

	require.Len(t, row, 7+len(reporting.CanonicalColorGroups))
	assert.Equal(t, []interface{}{"a", "15 Jan 2024", 100.0, 50.0, 150.0, 110.0, 40.0}, row[:7])
	assert.Equal(t, 90.0, row[7+2])
	assert.Equal(t, 60.0, row[7+5])
}

func TestAppendProductionRecord(t *testing.T) {
	w := &writerMock{}
	w.On("WriteRow", mock.Anything, ProductionRange, mock.Anything).Return(nil).Once()
	w.On("WriteRow", mock.Anything, ProductionRange, mock.Anything).Return(errors.New("quota")).Once()
	mirror := NewProductionMirror(w)

	require.NoError(t, mirror.AppendProductionRecord(context.Background(), models.ProductionRecord{ID: "a"}))
	assert.EqualError(t, mirror.AppendProductionRecord(context.Background(), models.ProductionRecord{ID: "b"}), "quota")
	w.AssertNumberOfCalls(t, "WriteRow", 2)
}
