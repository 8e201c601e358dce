package model

// WagerLeg is one of the two simultaneous wagers of a plan.
type WagerLeg struct {
	Amount           float64 `json:"amount"`
	TargetMultiplier float64 `json:"targetMultiplier"`
}

// Active reports whether the leg carries a stake.
func (l WagerLeg) Active() bool {
	return l.Amount > 0
}

// PlanBranch names the generator branch that produced a plan.
type PlanBranch string

const (
	BranchNone         PlanBranch = "none"
	BranchDeficit      PlanBranch = "deficit_recovery"
	BranchHuntCeiling  PlanBranch = "hunt_ceiling"
	BranchLossRecovery PlanBranch = "loss_recovery"
	BranchNormal       PlanBranch = "normal"
)

// WagerPlan is always exactly two legs: a low-target safety leg and a profit leg.
type WagerPlan struct {
	Safety   WagerLeg   `json:"safety"`
	Profit   WagerLeg   `json:"profit"`
	Branch   PlanBranch `json:"branch"`
	Cautious bool       `json:"cautious"`
	Reason   string     `json:"reason"`
}

// Empty reports whether neither leg carries a stake.
func (p WagerPlan) Empty() bool {
	return !p.Safety.Active() && !p.Profit.Active()
}

// Legs returns both legs, safety first.
func (p WagerPlan) Legs() []WagerLeg {
	return []WagerLeg{p.Safety, p.Profit}
}

// Stake is the total amount wagered by the plan.
func (p WagerPlan) Stake() float64 {
	return p.Safety.Amount + p.Profit.Amount
}

// ZeroPlan is the plan emitted whenever the engine must not wager.
func ZeroPlan(reason string) WagerPlan {
	return WagerPlan{
		Safety: WagerLeg{TargetMultiplier: 1},
		Profit: WagerLeg{TargetMultiplier: 1},
		Branch: BranchNone,
		Reason: reason,
	}
}
