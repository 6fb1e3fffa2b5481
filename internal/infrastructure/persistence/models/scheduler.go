package models

import "time"

// JobRunModel records the last completed run of a scheduled job.
type JobRunModel struct {
	Job        string    `gorm:"type:varchar(50);primary_key"`
	LastRunAt  time.Time `gorm:"not null"`
	LastStatus string    `gorm:"type:varchar(20);not null"`
	LastError  string    `gorm:"type:text"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// TableName returns the table name for GORM
func (JobRunModel) TableName() string {
	return "scheduler_job_runs"
}

// All returns every model managed by the worker, in dependency order
func All() []any {
	return []any{
		&CustomerModel{},
		&RiskTierLimitModel{},
		&CreditModel{},
		&InstallmentModel{},
		&MoraConfigurationModel{},
		&CollectionAlertModel{},
		&ContactHistoryModel{},
		&JobRunModel{},
	}
}
