package classify

import "vantage/internal/domain"

// Semantic axes used by the built-in views
const (
	AxisStatus         Axis = "status"
	AxisPriority       Axis = "priority"
	AxisSeverity       Axis = "severity"
	AxisReadiness      Axis = "readiness"
	AxisConfidence     Axis = "confidence"
	AxisRisk           Axis = "risk"
	AxisImplementation Axis = "implementation"
	AxisCompliance     Axis = "compliance"
	AxisTrend          Axis = "trend"
)

const (
	success = domain.CategorySuccess
	info    = domain.CategoryInfo
	warning = domain.CategoryWarning
	danger  = domain.CategoryDanger
	neutral = domain.CategoryNeutral
)

// DefaultTables returns the vocabulary shared by the built-in views
func DefaultTables() map[Axis]Table {
	return map[Axis]Table{
		AxisStatus: {
			"Active":          success,
			"Operational":     success,
			"Completed":       success,
			"Complete":        success,
			"Approved":        success,
			"Online":          success,
			"Resolved":        success,
			"Delivered":       success,
			"On Track":        success,
			"Healthy":         success,
			"In Stock":        success,
			"Settled":         success,
			"Won":             success,
			"Pending":         warning,
			"Under Review":    warning,
			"Delayed":         warning,
			"At Risk":         warning,
			"Partial Service": warning,
			"Degraded":        warning,
			"Maintenance":     warning,
			"Low Stock":       warning,
			"Warning":         warning,
			"On Hold":         warning,
			"In Progress":     info,
			"Scheduled":       info,
			"Planned":         info,
			"Processing":      info,
			"Open":            info,
			"Enrolling":       info,
			"Recruiting":      info,
			"Submitted":       info,
			"Failed":          danger,
			"Offline":         danger,
			"Critical":        danger,
			"Blocked":         danger,
			"Rejected":        danger,
			"Overdue":         danger,
			"Out of Stock":    danger,
			"Outage":          danger,
			"Breach":          danger,
			"Flagged":         danger,
			"Lost":            danger,
			"Inactive":        neutral,
			"Cancelled":       neutral,
			"Archived":        neutral,
			"Draft":           neutral,
			"Closed":          neutral,
		},
		AxisPriority: {
			"Critical": danger,
			"Urgent":   danger,
			"High":     warning,
			"Medium":   info,
			"Normal":   info,
			"Low":      success,
		},
		AxisSeverity: {
			"Critical":      danger,
			"Severe":        danger,
			"High":          danger,
			"Major":         danger,
			"Medium":        warning,
			"Moderate":      warning,
			"Low":           info,
			"Minor":         info,
			"Informational": neutral,
			"None":          neutral,
		},
		AxisReadiness: {
			"Mission Ready":             success,
			"Ready":                     success,
			"Fully Mission Capable":     success,
			"Green":                     success,
			"Partially Ready":           warning,
			"Partially Mission Capable": warning,
			"Limited":                   warning,
			"Amber":                     warning,
			"Not Ready":                 danger,
			"Not Mission Capable":       danger,
			"Red":                       danger,
			"Unknown":                   neutral,
		},
		AxisConfidence: {
			"Very High": success,
			"High":      success,
			"Medium":    warning,
			"Moderate":  warning,
			"Low":       danger,
			"Very Low":  danger,
		},
		AxisRisk: {
			"Low":      success,
			"Minimal":  success,
			"Medium":   warning,
			"Moderate": warning,
			"Elevated": warning,
			"High":     danger,
			"Severe":   danger,
			"Critical": danger,
		},
		AxisImplementation: {
			"Implemented": success,
			"Deployed":    success,
			"Live":        success,
			"Complete":    success,
			"In Progress": info,
			"Testing":     info,
			"Pilot":       info,
			"Planned":     neutral,
			"Not Started": neutral,
			"On Hold":     warning,
			"Blocked":     danger,
		},
		AxisCompliance: {
			"Compliant":           success,
			"Passed":              success,
			"Partially Compliant": warning,
			"Under Review":        warning,
			"Remediation":         warning,
			"Non-Compliant":       danger,
			"Violation":           danger,
			"Failed":              danger,
			"Exempt":              neutral,
			"N/A":                 neutral,
		},
		AxisTrend: {
			"Up":         success,
			"Improving":  success,
			"Increasing": success,
			"Stable":     info,
			"Flat":       info,
			"Down":       danger,
			"Declining":  danger,
			"Decreasing": danger,
		},
	}
}

// Default returns a classifier over DefaultTables
func Default() *Classifier {
	return New(DefaultTables())
}
