package ports

import (
	"context"

	"goclean/domain/cleaning"
	"goclean/domain/table"
)

// Imputer fills missing values
type Imputer interface {
	Impute(ctx context.Context, ds *table.Dataset, config cleaning.ImputationConfig) (*cleaning.StageResult, error)
}

// OutlierDetector detects and handles outliers in numeric columns. Flag
// actions are recorded in flags.
type OutlierDetector interface {
	Detect(ctx context.Context, ds *table.Dataset, config cleaning.OutlierConfig, flags *cleaning.Flags) (*cleaning.StageResult, error)
}

// RuleEngine applies custom rules in order
type RuleEngine interface {
	Apply(ctx context.Context, ds *table.Dataset, rules []cleaning.CustomRule, flags *cleaning.Flags) (*cleaning.StageResult, error)
}
