// Package models contains GORM persistence models that map to database tables.
// Domain entities carry no ORM concerns; each model converts to and from its
// domain entity with ToDomain / FromDomain.
//
// Tables:
//   - credits, installments, risk_tier_limits (credit.go)
//   - mora_configurations (mora.go)
//   - customers (partner.go)
//   - collection_alerts, collection_contact_history (collection.go)
//   - scheduler_job_runs (scheduler.go)
package models
