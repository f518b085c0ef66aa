package services

// Fee policy: the platform keeps max(minimumFee, ceil(bounty * 10%)) on every
// posted task. The fee is computed once at post time and stored on the task;
// it is never recomputed, so changing these constants does not retroactively
// affect existing tasks.
const (
	feePercent = 10
	minimumFee = 3
)

// ComputeFee returns the platform fee for a bounty. Pure, deterministic.
func ComputeFee(bounty int) int {
	fee := (bounty*feePercent + 99) / 100
	if fee < minimumFee {
		fee = minimumFee
	}
	return fee
}
