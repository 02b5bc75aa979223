package db

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/go-redis/redis/v8"

	"gestao-alunos-go/logger"
	"gestao-alunos-go/models"
)

const (
	coursesKey        = "cursos"       // Sorted set: course IDs scored by ID
	courseInfoPrefix  = "curso:"       // Hash prefix: curso:{id} -> course details
	studentsKey       = "alunos"       // Sorted set: student IDs scored by ID
	studentInfoPrefix = "aluno:"       // Hash prefix: aluno:{id} -> student details
	studentEmailsKey  = "alunos:email" // Hash: email -> student ID, enforces unique emails
	courseSeqKey      = "seq:cursos"
	studentSeqKey     = "seq:alunos"

	dateLayout = "2006-01-02"
)

var (
	ErrNotFound       = errors.New("student not found")
	ErrCourseNotFound = errors.New("course not found")
	ErrEmailTaken     = errors.New("email already registered")
)

// RedisService stores courses and students in Redis
type RedisService struct {
	Client *redis.Client
	now    func() time.Time
}

// NewRedisService creates a new RedisService instance
func NewRedisService(client *redis.Client) *RedisService {
	return &RedisService{
		Client: client,
		now:    time.Now,
	}
}

func getCourseInfoKey(id int64) string {
	return courseInfoPrefix + strconv.FormatInt(id, 10)
}

func getStudentInfoKey(id int64) string {
	return studentInfoPrefix + strconv.FormatInt(id, 10)
}

// --- Course Operations ---

// AddCourse creates a course with the next free ID
func (s *RedisService) AddCourse(ctx context.Context, name string, durationMonths int) (*models.Course, error) {
	if name == "" || durationMonths <= 0 {
		return nil, errors.New("course name and a positive duration are required")
	}
	id, err := s.Client.Incr(ctx, courseSeqKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate course ID: %w", err)
	}

	pipe := s.Client.TxPipeline()
	pipe.ZAdd(ctx, coursesKey, &redis.Z{Score: float64(id), Member: id})
	pipe.HSet(ctx, getCourseInfoKey(id), map[string]interface{}{
		"id":         id,
		"nome_curso": name,
		"duracao":    durationMonths,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to add course to Redis: %w", err)
	}
	logger.LogInfo("Added course", "id", id, "name", name)
	return &models.Course{ID: id, Name: name, DurationMonths: durationMonths}, nil
}

// GetCourseByID retrieves a course, returning nil when it does not exist
func (s *RedisService) GetCourseByID(ctx context.Context, id int64) (*models.Course, error) {
	data, err := s.Client.HGetAll(ctx, getCourseInfoKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get course from Redis: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}
	duration, _ := strconv.Atoi(data["duracao"])
	return &models.Course{ID: id, Name: data["nome_curso"], DurationMonths: duration}, nil
}

// GetAllCourses retrieves all courses ordered by ID
func (s *RedisService) GetAllCourses(ctx context.Context) ([]models.Course, error) {
	ids, err := s.memberIDs(ctx, coursesKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get course IDs from Redis: %w", err)
	}

	courses := make([]models.Course, 0, len(ids))
	for _, id := range ids {
		course, err := s.GetCourseByID(ctx, id)
		if err != nil {
			logger.LogError("Failed to fetch course details", err, "id", id)
			continue
		}
		if course != nil {
			courses = append(courses, *course)
		}
	}
	return courses, nil
}

// SeedCourses inserts the initial courses when no course exists yet.
// It reports whether anything was inserted.
func (s *RedisService) SeedCourses(ctx context.Context) (bool, error) {
	count, err := s.Client.ZCard(ctx, coursesKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check existing courses: %w", err)
	}
	if count > 0 {
		logger.LogInfo("Courses already present, skipping seed", "count", count)
		return false, nil
	}

	initial := []models.Course{
		{Name: "Gestão de TI", DurationMonths: 24},
		{Name: "Desenvolvimento de Sistemas", DurationMonths: 18},
	}
	for _, c := range initial {
		if _, err := s.AddCourse(ctx, c.Name, c.DurationMonths); err != nil {
			return false, fmt.Errorf("failed to seed course %q: %w", c.Name, err)
		}
	}
	return true, nil
}

// --- Student Operations ---

// CreateStudent enrolls a student in an existing course
func (s *RedisService) CreateStudent(ctx context.Context, p models.StudentPayload) (*models.Student, error) {
	if p.CourseID == nil {
		return nil, ErrCourseNotFound
	}
	course, err := s.GetCourseByID(ctx, *p.CourseID)
	if err != nil {
		return nil, err
	}
	if course == nil {
		return nil, ErrCourseNotFound
	}

	id, err := s.Client.Incr(ctx, studentSeqKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to allocate student ID: %w", err)
	}

	claimed, err := s.Client.HSetNX(ctx, studentEmailsKey, p.Email, id).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to reserve email: %w", err)
	}
	if !claimed {
		return nil, ErrEmailTaken
	}

	enrolledOn := s.now().UTC().Format(dateLayout)
	pipe := s.Client.TxPipeline()
	pipe.ZAdd(ctx, studentsKey, &redis.Z{Score: float64(id), Member: id})
	pipe.HSet(ctx, getStudentInfoKey(id), map[string]interface{}{
		"id":             id,
		"nome":           p.Name,
		"email":          p.Email,
		"curso_id":       *p.CourseID,
		"data_matricula": enrolledOn,
	})
	if _, err := pipe.Exec(ctx); err != nil {
		s.Client.HDel(ctx, studentEmailsKey, p.Email)
		return nil, fmt.Errorf("failed to add student to Redis: %w", err)
	}

	return &models.Student{
		ID:         id,
		Name:       p.Name,
		Email:      p.Email,
		CourseID:   p.CourseID,
		CourseName: &course.Name,
		EnrolledOn: &enrolledOn,
	}, nil
}

// GetStudentByID retrieves a student, returning nil when it does not exist
func (s *RedisService) GetStudentByID(ctx context.Context, id int64) (*models.Student, error) {
	data, err := s.Client.HGetAll(ctx, getStudentInfoKey(id)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get student from Redis: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	student := &models.Student{ID: id, Name: data["nome"], Email: data["email"]}
	if raw := data["curso_id"]; raw != "" {
		if courseID, err := strconv.ParseInt(raw, 10, 64); err == nil {
			student.CourseID = &courseID
		}
	}
	if date := data["data_matricula"]; date != "" {
		student.EnrolledOn = &date
	}
	return student, nil
}

// GetAllStudents retrieves all students ordered by ID, with course names filled in
func (s *RedisService) GetAllStudents(ctx context.Context) ([]models.Student, error) {
	ids, err := s.memberIDs(ctx, studentsKey)
	if err != nil {
		return nil, fmt.Errorf("failed to get student IDs from Redis: %w", err)
	}

	courseNames := map[int64]*string{}
	students := make([]models.Student, 0, len(ids))
	for _, id := range ids {
		student, err := s.GetStudentByID(ctx, id)
		if err != nil {
			logger.LogError("Failed to fetch student details", err, "id", id)
			continue
		}
		if student == nil {
			continue
		}
		if student.CourseID != nil {
			name, ok := courseNames[*student.CourseID]
			if !ok {
				if course, err := s.GetCourseByID(ctx, *student.CourseID); err == nil && course != nil {
					name = &course.Name
				}
				courseNames[*student.CourseID] = name
			}
			student.CourseName = name
		}
		students = append(students, *student)
	}
	return students, nil
}

// UpdateStudent replaces a student's name, email and course. A nil course unassigns it.
func (s *RedisService) UpdateStudent(ctx context.Context, id int64, p models.StudentPayload) (*models.Student, error) {
	current, err := s.GetStudentByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current == nil {
		return nil, ErrNotFound
	}

	var courseName *string
	if p.CourseID != nil {
		course, err := s.GetCourseByID(ctx, *p.CourseID)
		if err != nil {
			return nil, err
		}
		if course == nil {
			return nil, ErrCourseNotFound
		}
		courseName = &course.Name
	}

	if p.Email != current.Email {
		claimed, err := s.Client.HSetNX(ctx, studentEmailsKey, p.Email, id).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to reserve email: %w", err)
		}
		if !claimed {
			return nil, ErrEmailTaken
		}
	}

	courseField := ""
	if p.CourseID != nil {
		courseField = strconv.FormatInt(*p.CourseID, 10)
	}
	pipe := s.Client.TxPipeline()
	pipe.HSet(ctx, getStudentInfoKey(id), map[string]interface{}{
		"nome":     p.Name,
		"email":    p.Email,
		"curso_id": courseField,
	})
	if p.Email != current.Email {
		pipe.HDel(ctx, studentEmailsKey, current.Email)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		if p.Email != current.Email {
			s.Client.HDel(ctx, studentEmailsKey, p.Email)
		}
		return nil, fmt.Errorf("failed to update student in Redis: %w", err)
	}

	current.Name = p.Name
	current.Email = p.Email
	current.CourseID = p.CourseID
	current.CourseName = courseName
	return current, nil
}

// DeleteStudent removes a student and frees its email
func (s *RedisService) DeleteStudent(ctx context.Context, id int64) error {
	current, err := s.GetStudentByID(ctx, id)
	if err != nil {
		return err
	}
	if current == nil {
		return ErrNotFound
	}

	pipe := s.Client.TxPipeline()
	pipe.ZRem(ctx, studentsKey, id)
	pipe.Del(ctx, getStudentInfoKey(id))
	pipe.HDel(ctx, studentEmailsKey, current.Email)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete student from Redis: %w", err)
	}
	return nil
}

// Statistics counts students and courses
func (s *RedisService) Statistics(ctx context.Context) (models.Statistics, error) {
	pipe := s.Client.Pipeline()
	students := pipe.ZCard(ctx, studentsKey)
	courses := pipe.ZCard(ctx, coursesKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return models.Statistics{}, fmt.Errorf("failed to count entities: %w", err)
	}
	return models.Statistics{TotalStudents: students.Val(), TotalCourses: courses.Val()}, nil
}

func (s *RedisService) memberIDs(ctx context.Context, key string) ([]int64, error) {
	members, err := s.Client.ZRange(ctx, key, 0, -1).Result()
	if err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	ids := make([]int64, 0, len(members))
	for _, m := range members {
		id, err := strconv.ParseInt(m, 10, 64)
		if err != nil {
			logger.LogWarn("Ignoring malformed member", "key", key, "member", m)
			continue
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// --- Utility ---

// InitializeRedisClient creates a Redis client and checks the connection
func InitializeRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("could not connect to Redis at %s: %w", addr, err)
	}

	logger.LogInfo("Connected to Redis", "addr", addr, "db", db)
	return rdb, nil
}
