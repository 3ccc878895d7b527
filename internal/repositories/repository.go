package repositories

import "context"

// Repository aggregates all repository interfaces
type Repository interface {
	// Academic catalog domain
	Catalog() CatalogRepository

	// People domain
	Teacher() TeacherRepository
	Student() StudentRepository

	// Scheduling domain
	Schedule() ScheduleRepository

	// Quiz domain
	Question() QuestionRepository
	Quiz() QuizRepository
	PublishedQuiz() PublishedQuizRepository

	// Task domain
	Task() TaskRepository

	// User domain (directory data owned by Casdoor)
	User() UserRepository

	// Transaction support
	WithTransaction(ctx context.Context, fn func(Repository) error) error

	// Health check
	Ping(ctx context.Context) error

	// Close connections
	Close() error
}

// RepositoryManager interface for managing repository lifecycle
type RepositoryManager interface {
	// Initialize repositories with database connections
	Initialize() error

	// Get repository instance
	GetRepository() Repository

	// Health check for all repositories
	HealthCheck(ctx context.Context) error

	// Graceful shutdown
	Shutdown(ctx context.Context) error
}
