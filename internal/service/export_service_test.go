package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ehub-epfl/founders-explorer-api/internal/catalog"
	"github.com/ehub-epfl/founders-explorer-api/internal/models"
	"github.com/ehub-epfl/founders-explorer-api/pkg/config"
	appErrors "github.com/ehub-epfl/founders-explorer-api/pkg/errors"
)

func TestExportServiceCSV(t *testing.T) {
	repo := &mockCourseRepo{
		courses: []models.Course{
			{
				CourseKey: "CS-101",
				Code:      "CS-101",
				Name:      "Algorithms",
				Credits:   fl(4),
				Teachers:  []models.Teacher{{Name: "Ada Lovelace"}, {Name: "Alan Turing"}},
			},
		},
		total: 1,
	}
	svc := NewExportService(repo, nil, config.ExportConfig{Enabled: true, MaxRows: 100})

	file, err := svc.Export(context.Background(), catalog.FilterSet{}, catalog.SortSpec{}, "csv")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasPrefix(file.Filename, "courses-"))
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))

	body := string(file.Content)
	assert.Contains(t, body, "Key,Code,Name")
	assert.Contains(t, body, "Algorithms")
	assert.Contains(t, body, "Ada Lovelace; Alan Turing")
}

func TestExportServicePDF(t *testing.T) {
	repo := &mockCourseRepo{
		courses: []models.Course{{CourseKey: "CS-101", Name: "Algorithms"}},
		total:   1,
	}
	svc := NewExportService(repo, nil, config.ExportConfig{Enabled: true, MaxRows: 100})

	file, err := svc.Export(context.Background(), catalog.FilterSet{}, catalog.SortSpec{}, "pdf")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".pdf"))
	assert.NotEmpty(t, file.Content)
}

func TestExportServiceDisabled(t *testing.T) {
	svc := NewExportService(&mockCourseRepo{}, nil, config.ExportConfig{Enabled: false})

	_, err := svc.Export(context.Background(), catalog.FilterSet{}, catalog.SortSpec{}, "csv")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}

func TestExportServiceUnknownFormat(t *testing.T) {
	svc := NewExportService(&mockCourseRepo{}, nil, config.ExportConfig{Enabled: true})

	_, err := svc.Export(context.Background(), catalog.FilterSet{}, catalog.SortSpec{}, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestExportServiceDefaultsToCSV(t *testing.T) {
	repo := &mockCourseRepo{courses: nil, total: 0}
	svc := NewExportService(repo, nil, config.ExportConfig{Enabled: true})

	file, err := svc.Export(context.Background(), catalog.FilterSet{}, catalog.SortSpec{}, "")
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
}
