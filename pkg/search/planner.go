package search

// slotOrder is the fixed traversal order of SearchConfig's operator slots.
// The plan preserves this order regardless of how the config was built, so
// two configs with the same populated slots always produce the same plan.
func slotOrder(cfg *SearchConfig) []Operator {
	return []Operator{
		cfg.QueryExpansion,
		cfg.QueryInterpretation,
		cfg.QdrantFilter,
		cfg.Embedding,
		cfg.VectorSearch,
		cfg.Recency,
		cfg.Reranking,
		cfg.Completion,
	}
}

// BuildPlan returns the populated slots of cfg in canonical order. Nil
// slots are skipped; no ordering decisions are made here beyond the fixed
// slot order, scheduling handles dependencies.
func BuildPlan(cfg *SearchConfig) []Operator {
	slots := slotOrder(cfg)
	plan := make([]Operator, 0, len(slots))
	for _, op := range slots {
		if op != nil {
			plan = append(plan, op)
		}
	}
	return plan
}

// PlanNames returns the operator names of plan, for logging.
func PlanNames(plan []Operator) []string {
	names := make([]string, len(plan))
	for i, op := range plan {
		names[i] = op.Name()
	}
	return names
}
