package scheduler

import "errors"

var (
	// ErrJobNotFound is returned when a job name is not registered
	ErrJobNotFound = errors.New("job not found")

	// ErrJobAlreadyRegistered is returned when registering a job name twice
	ErrJobAlreadyRegistered = errors.New("job already registered")

	// ErrInvalidSchedule is returned for cron expressions that cannot be parsed
	ErrInvalidSchedule = errors.New("invalid cron schedule")

	// ErrJobLocked is returned when another worker holds the job lock
	ErrJobLocked = errors.New("job is locked by another worker")
)
