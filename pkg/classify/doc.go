// Package classify turns the flat month × SKU analytics table into an
// ABC/XYZ classified SKU table.
//
// ABC ranks SKUs by revenue contribution:
//
//	sort by total revenue descending, accumulate
//	running % = cumulative revenue / total revenue * 100
//	(0, 80] -> A, (80, 90] -> B, otherwise C
//
// XYZ ranks SKUs by demand variability over the months of the table:
//
//	cov = sample std of monthly units / mean monthly units
//	cov <= 1 -> X, 1 < cov <= 1.5 -> Y, otherwise Z
//
// A SKU without sales in a month counts as zero demand for that month.
// A coefficient of variation that is not finite (zero mean demand, or a
// single month of data) classifies as Z and is reported as a
// ComputationWarning; it never fails the run.
//
// By default the total and mean demand cover every month column, the same
// columns as the standard deviation. Options.ShiftedDemandColumns instead
// sums all but the last month and averages all but the last two, for
// comparison with reports that were computed that way.
package classify
