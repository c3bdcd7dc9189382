package constraints

import (
	"fmt"

	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/model"
	"github.com/fp1acm8/modular-shift-scheduler/pkg/core/timeindex"
)

// SkillEligible reports whether the employee holds the shift's required skill
func SkillEligible(employee *model.Employee, shift *model.Shift) bool {
	return employee.HasSkill(shift.RequiredSkill)
}

// SkillConstraint only lets employees take shifts whose required skill they hold
type SkillConstraint struct{}

func (c *SkillConstraint) Name() string {
	return "Skill"
}

func (c *SkillConstraint) Allows(state *State, employee *model.Employee, shift *model.Shift) bool {
	return SkillEligible(employee, shift)
}

func (c *SkillConstraint) Check(assignment model.Assignment, cfg *model.SchedulingConfig, idx *timeindex.Index) []*model.InvariantViolation {
	var violations []*model.InvariantViolation
	pairsFor(assignment, cfg, func(e *model.Employee, shifts []*model.Shift) {
		for _, s := range shifts {
			if !SkillEligible(e, s) {
				violations = append(violations, &model.InvariantViolation{
					Rule:       c.Name(),
					EmployeeID: e.ID,
					ShiftID:    s.ID,
					Detail:     fmt.Sprintf("employee lacks required skill %q", s.RequiredSkill),
				})
			}
		}
	})
	return violations
}
