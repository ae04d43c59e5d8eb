package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ehub-epfl/founders-explorer-api/internal/catalog"
	"github.com/ehub-epfl/founders-explorer-api/internal/models"
	"github.com/ehub-epfl/founders-explorer-api/pkg/config"
	appErrors "github.com/ehub-epfl/founders-explorer-api/pkg/errors"
	"github.com/ehub-epfl/founders-explorer-api/pkg/export"
)

var exportHeaders = []string{
	"Key", "Code", "Name", "Section", "Language", "Credits", "Workload",
	"Type", "Semester", "Exam", "Teachers",
	"Relevance", "Discovery", "Building", "Venture", "Intro",
}

// ExportFile is a rendered export ready to stream to the client.
type ExportFile struct {
	Content     []byte
	ContentType string
	Filename    string
}

// ExportService renders the filtered catalog as CSV or PDF, capped at a
// configured row count.
type ExportService struct {
	repo   courseRepository
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
	config config.ExportConfig
}

// NewExportService creates a new export service.
func NewExportService(repo courseRepository, logger *zap.Logger, cfg config.ExportConfig) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = 2000
	}
	return &ExportService{
		repo:   repo,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewPDFExporter(),
		logger: logger,
		config: cfg,
	}
}

// Export fetches every course matching the filter, up to the row cap, and
// renders it in the requested format.
func (s *ExportService) Export(ctx context.Context, filter catalog.FilterSet, sort catalog.SortSpec, rawFormat string) (*ExportFile, error) {
	if !s.config.Enabled {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "export is disabled")
	}

	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export format")
	}

	courses, total, err := s.repo.Search(ctx, filter, sort, 1, s.config.MaxRows)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load courses for export")
	}
	if total > s.config.MaxRows {
		s.logger.Warn("export truncated", zap.Int("total", total), zap.Int("max_rows", s.config.MaxRows))
	}

	dataset := buildCourseDataset(courses)

	var content []byte
	switch format {
	case export.FormatPDF:
		content, err = s.pdf.Render(dataset, "Course Catalog")
	default:
		content, err = s.csv.Render(dataset)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	filename := fmt.Sprintf("courses-%s%s", time.Now().UTC().Format("20060102-150405"), format.Extension())
	return &ExportFile{Content: content, ContentType: format.ContentType(), Filename: filename}, nil
}

func buildCourseDataset(courses []models.Course) export.Dataset {
	rows := make([]map[string]string, 0, len(courses))
	for _, c := range courses {
		teachers := make([]string, 0, len(c.Teachers))
		for _, t := range c.Teachers {
			teachers = append(teachers, t.Name)
		}
		rows = append(rows, map[string]string{
			"Key":       c.CourseKey,
			"Code":      c.Code,
			"Name":      c.Name,
			"Section":   c.Section,
			"Language":  c.Language,
			"Credits":   formatFloat(c.Credits),
			"Workload":  formatFloat(c.Workload),
			"Type":      c.Type,
			"Semester":  c.Semester,
			"Exam":      c.ExamForm,
			"Teachers":  strings.Join(teachers, "; "),
			"Relevance": formatFloat(c.ScoreRelevance),
			"Discovery": formatFloat(c.ScoreDiscovery),
			"Building":  formatFloat(c.ScoreBuilding),
			"Venture":   formatFloat(c.ScoreVenture),
			"Intro":     formatFloat(c.ScoreIntro),
		})
	}
	return export.Dataset{Headers: exportHeaders, Rows: rows}
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
