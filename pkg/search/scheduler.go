package search

// FindReady returns, in plan order, the operators that have not executed
// and whose dependencies are satisfied. A dependency is satisfied when it
// has executed or when it names an operator absent from the plan: optional
// stages may be disabled without rewriting the dependency declarations of
// everything downstream.
//
// An empty result with unexecuted operators remaining means the plan's
// dependency graph is unsatisfiable; the executor logs and stops rather
// than spinning.
func FindReady(plan []Operator, executed map[string]bool) []Operator {
	inPlan := make(map[string]bool, len(plan))
	for _, op := range plan {
		inPlan[op.Name()] = true
	}

	var ready []Operator
	for _, op := range plan {
		if executed[op.Name()] {
			continue
		}
		satisfied := true
		for _, dep := range op.DependsOn() {
			if inPlan[dep] && !executed[dep] {
				satisfied = false
				break
			}
		}
		if satisfied {
			ready = append(ready, op)
		}
	}
	return ready
}
