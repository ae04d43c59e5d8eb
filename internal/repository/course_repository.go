package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/ehub-epfl/founders-explorer-api/internal/catalog"
	"github.com/ehub-epfl/founders-explorer-api/internal/models"
)

const courseColumns = `c.id, c.course_key, c.code, c.name, c.section, c.url, c.language,
	c.credits, c.workload, c.course_type, c.semester, c.schedule, c.exam_form,
	c.score_relevance, c.score_discovery, c.score_building, c.score_venture, c.score_intro,
	c.created_at, c.updated_at`

// CourseRepository handles persistence for coursebook rows.
type CourseRepository struct {
	db *sqlx.DB
}

// NewCourseRepository creates a new repository instance.
func NewCourseRepository(db *sqlx.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// Search returns courses matching the filter set with pagination metadata.
// Program-membership constraints (degree/level/major/minor) each intersect
// the candidate set through their own EXISTS clause; major and minor form a
// single union clause when both are given. An empty intersection yields an
// empty page, never an error.
func (r *CourseRepository) Search(ctx context.Context, filter catalog.FilterSet, sort catalog.SortSpec, page, pageSize int) ([]models.Course, int, error) {
	base := "FROM coursebook_courses c WHERE 1=1"
	var conditions []string
	var args []interface{}

	arg := func(v interface{}) int {
		args = append(args, v)
		return len(args)
	}

	if q := strings.TrimSpace(filter.Query); q != "" {
		n := arg("%" + strings.ToLower(q) + "%")
		conditions = append(conditions, fmt.Sprintf(
			"(LOWER(c.name) LIKE $%d OR LOWER(c.code) LIKE $%d OR LOWER(c.language) LIKE $%d OR LOWER(c.section) LIKE $%d"+
				" OR EXISTS (SELECT 1 FROM coursebook_teachers t WHERE t.course_key = c.course_key AND LOWER(t.name) LIKE $%d))",
			n, n, n, n, n))
	}
	if filter.Type != catalog.CourseTypeAny {
		conditions = append(conditions, fmt.Sprintf("c.course_type = $%d", arg(string(filter.Type))))
	}
	if filter.Semester != catalog.SemesterAny {
		conditions = append(conditions, fmt.Sprintf("c.semester = $%d", arg(string(filter.Semester))))
	}
	if filter.CreditsMin != nil {
		conditions = append(conditions, fmt.Sprintf("c.credits >= $%d", arg(*filter.CreditsMin)))
	}
	if filter.CreditsMax != nil {
		conditions = append(conditions, fmt.Sprintf("c.credits <= $%d", arg(*filter.CreditsMax)))
	}

	thresholds := map[string]float64{
		"score_relevance": filter.MinScores.Relevance,
		"score_discovery": filter.MinScores.Discovery,
		"score_building":  filter.MinScores.Building,
		"score_venture":   filter.MinScores.Venture,
		"score_intro":     filter.MinScores.Intro,
	}
	for _, column := range []string{"score_relevance", "score_discovery", "score_building", "score_venture", "score_intro"} {
		if min := thresholds[column]; min > 0 {
			conditions = append(conditions, fmt.Sprintf("c.%s >= $%d", column, arg(min)))
		}
	}

	if cond := degreeCondition(filter.Degree, arg); cond != "" {
		conditions = append(conditions, cond)
	}
	if filter.Level != "" {
		conditions = append(conditions, fmt.Sprintf(
			"EXISTS (SELECT 1 FROM coursebook_programs p WHERE p.course_key = c.course_key AND p.level = $%d)",
			arg(filter.Level)))
	}
	if cond := programCondition(filter, arg); cond != "" {
		conditions = append(conditions, cond)
	}

	if len(conditions) > 0 {
		base += " AND " + strings.Join(conditions, " AND ")
	}

	orderBy := sortClause(sort)
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf("SELECT %s %s ORDER BY %s LIMIT %d OFFSET %d", courseColumns, base, orderBy, pageSize, offset)
	var courses []models.Course
	if err := r.db.SelectContext(ctx, &courses, query, args...); err != nil {
		return nil, 0, fmt.Errorf("search courses: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count courses: %w", err)
	}

	normalizeScores(courses)
	if err := r.attachRelations(ctx, courses); err != nil {
		return nil, 0, err
	}

	return courses, total, nil
}

// Early imports stored the five scores on the fractional 0..1 schema, and
// later ones on 0..100. Rows are normalized to the canonical range as they
// leave the store so no caller has to care which era wrote them.
func normalizeScores(courses []models.Course) {
	for i := range courses {
		c := &courses[i]
		for _, score := range []**float64{
			&c.ScoreRelevance, &c.ScoreDiscovery, &c.ScoreBuilding, &c.ScoreVenture, &c.ScoreIntro,
		} {
			if *score != nil {
				*score = catalog.NormalizeScore(**score)
			}
		}
	}
}

// degreeCondition narrows membership by degree via level-label prefixes:
// BA/MA numbered levels, the MA project and minor buckets, and the doctoral
// bucket for PhD.
func degreeCondition(degree string, arg func(interface{}) int) string {
	switch degree {
	case "":
		return ""
	case models.DegreePhD:
		return fmt.Sprintf(
			"EXISTS (SELECT 1 FROM coursebook_programs p WHERE p.course_key = c.course_key AND p.level = $%d)",
			arg(models.LevelDoctoralSchool))
	case models.DegreeMA:
		return fmt.Sprintf(
			"EXISTS (SELECT 1 FROM coursebook_programs p WHERE p.course_key = c.course_key AND (p.level LIKE $%d OR p.level LIKE $%d))",
			arg("MA%"), arg("Minor%"))
	default:
		return fmt.Sprintf(
			"EXISTS (SELECT 1 FROM coursebook_programs p WHERE p.course_key = c.course_key AND p.level LIKE $%d)",
			arg(degree+"%"))
	}
}

// programCondition builds the major/minor membership clause. A major scopes
// to mandatory roles and a minor to optional ones unless the query pins an
// explicit type; when both are given the course may satisfy either.
func programCondition(filter catalog.FilterSet, arg func(interface{}) int) string {
	var clauses []string

	if filter.Major != "" {
		cond := fmt.Sprintf("(p.program_name = $%d", arg(filter.Major))
		if filter.Type == catalog.CourseTypeAny {
			cond += fmt.Sprintf(" AND p.program_type = $%d", arg(string(catalog.CourseTypeMandatory)))
		}
		cond += ")"
		clauses = append(clauses, cond)
	}
	if filter.Minor != "" {
		cond := fmt.Sprintf("(p.program_name = $%d AND p.level LIKE $%d", arg(filter.Minor), arg("Minor%"))
		if filter.Type == catalog.CourseTypeAny {
			cond += fmt.Sprintf(" AND p.program_type = $%d", arg(string(catalog.CourseTypeOptional)))
		}
		cond += ")"
		clauses = append(clauses, cond)
	}

	if len(clauses) == 0 {
		return ""
	}
	return fmt.Sprintf(
		"EXISTS (SELECT 1 FROM coursebook_programs p WHERE p.course_key = c.course_key AND (%s))",
		strings.Join(clauses, " OR "))
}

var allowedSortColumns = map[string]string{
	"name":                      "c.name",
	"code":                      "c.code",
	catalog.FieldCredits:        "c.credits",
	catalog.FieldWorkload:       "c.workload",
	catalog.FieldScoreRelevance: "c.score_relevance",
	catalog.FieldScoreDiscovery: "c.score_discovery",
	catalog.FieldScoreBuilding:  "c.score_building",
	catalog.FieldScoreVenture:   "c.score_venture",
	catalog.FieldScoreIntro:     "c.score_intro",
}

func sortClause(sort catalog.SortSpec) string {
	column, ok := allowedSortColumns[sort.Field]
	if !ok {
		return "c.name ASC, c.course_key ASC"
	}
	direction := "DESC"
	if sort.Order == catalog.OrderAsc {
		direction = "ASC"
	}
	return fmt.Sprintf("%s %s NULLS LAST, c.course_key ASC", column, direction)
}

// FindByKey returns one course with teachers and memberships attached.
func (r *CourseRepository) FindByKey(ctx context.Context, courseKey string) (*models.Course, error) {
	query := fmt.Sprintf("SELECT %s FROM coursebook_courses c WHERE c.course_key = $1", courseColumns)
	var course models.Course
	if err := r.db.GetContext(ctx, &course, query, courseKey); err != nil {
		return nil, err
	}
	page := []models.Course{course}
	normalizeScores(page)
	if err := r.attachRelations(ctx, page); err != nil {
		return nil, err
	}
	return &page[0], nil
}

func (r *CourseRepository) attachRelations(ctx context.Context, courses []models.Course) error {
	if len(courses) == 0 {
		return nil
	}
	keys := make([]string, len(courses))
	index := make(map[string]int, len(courses))
	for i, c := range courses {
		keys[i] = c.CourseKey
		index[c.CourseKey] = i
	}

	query, args, err := sqlx.In("SELECT id, course_key, name, url FROM coursebook_teachers WHERE course_key IN (?) ORDER BY name", keys)
	if err != nil {
		return fmt.Errorf("build teacher query: %w", err)
	}
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("load teachers: %w", err)
	}
	seen := make(map[string]struct{}, len(teachers))
	for _, t := range teachers {
		key := t.CourseKey + "\x00" + t.Name + "\x00" + t.URL
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		i := index[t.CourseKey]
		courses[i].Teachers = append(courses[i].Teachers, t)
	}

	query, args, err = sqlx.In("SELECT id, course_key, program_name, level, semester, exam_form, program_type FROM coursebook_programs WHERE course_key IN (?) ORDER BY program_name", keys)
	if err != nil {
		return fmt.Errorf("build program query: %w", err)
	}
	var programs []models.ProgramMembership
	if err := r.db.SelectContext(ctx, &programs, r.db.Rebind(query), args...); err != nil {
		return fmt.Errorf("load programs: %w", err)
	}
	for _, p := range programs {
		i := index[p.CourseKey]
		courses[i].Programs = append(courses[i].Programs, p)
	}

	return nil
}
