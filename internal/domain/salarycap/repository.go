package salarycap

import "context"

type Repository interface {
	Get(ctx context.Context, teamID int64, season int) (SalaryCap, bool, error)
	Upsert(ctx context.Context, item SalaryCap) error
	ListBySeason(ctx context.Context, season int) ([]SalaryCap, error)
}
