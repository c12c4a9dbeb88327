package stats

import "sort"

// DefaultHourlyRate is used when no rate is configured.
const DefaultHourlyRate = 25.0

// Employee is the staff record used for cost breakdowns.
type Employee struct {
	UserID string `json:"user_id"`
	Name   string `json:"name"`
	Role   string `json:"role,omitempty"`
}

// EmployeeCost is the per-employee breakdown.
type EmployeeCost struct {
	UserID            string  `json:"user_id"`
	Name              string  `json:"name"`
	HoursWorked       float64 `json:"hours_worked"`
	TaskHours         float64 `json:"task_hours"`
	ProductivityRatio float64 `json:"productivity_ratio"`
	Cost              float64 `json:"cost"`
}

// RoleCost aggregates employees sharing a role.
type RoleCost struct {
	Count int     `json:"count"`
	Hours float64 `json:"hours"`
	Cost  float64 `json:"cost"`
}

// ClientCost aggregates completed task hours billed against a client.
type ClientCost struct {
	ClientID   string  `json:"client_id"`
	ClientName string  `json:"client_name"`
	Hours      float64 `json:"hours"`
	Cost       float64 `json:"cost"`
	TaskCount  int     `json:"task_count"`
}

// CostTotals is the team-wide roll-up.
type CostTotals struct {
	TotalEmployees    int     `json:"total_employees"`
	TotalHours        float64 `json:"total_hours"`
	TotalCost         float64 `json:"total_cost"`
	TotalTaskHours    float64 `json:"total_task_hours"`
	ProductivityRatio float64 `json:"productivity_ratio"`
}

// CostSummary is the full cost breakdown.
type CostSummary struct {
	HourlyRate       float64             `json:"hourly_rate"`
	Summary          CostTotals          `json:"summary"`
	EmployeeData     []EmployeeCost      `json:"employee_data"`
	RoleDistribution map[string]RoleCost `json:"role_distribution"`
	ClientCosts      []ClientCost        `json:"client_costs"`
}

// CostMetrics breaks labour cost down by employee, role and client.
// Only completed tasks with a positive actual time count toward task hours.
func CostMetrics(employees []Employee, attendance []AttendanceRecord, tasks []TaskRecord, hourlyRate float64) CostSummary {
	if hourlyRate <= 0 {
		hourlyRate = DefaultHourlyRate
	}

	hoursByUser := make(map[string]float64)
	for _, r := range attendance {
		if valid(r.LoginTime) && valid(r.LogoutTime) {
			hoursByUser[r.UserID] += r.LogoutTime.Sub(r.LoginTime.Time).Hours()
		}
	}
	taskHoursByUser := make(map[string]float64)
	clients := make(map[string]*ClientCost)
	var clientOrder []string
	for _, t := range tasks {
		if !isCompleted(t.Status) || t.ActualTime == nil || *t.ActualTime <= 0 {
			continue
		}
		taskHoursByUser[t.AssignedTo] += *t.ActualTime
		if t.ClientID == "" {
			continue
		}
		c, ok := clients[t.ClientID]
		if !ok {
			name := t.ClientName
			if name == "" {
				name = "Client " + t.ClientID
			}
			c = &ClientCost{ClientID: t.ClientID, ClientName: name}
			clients[t.ClientID] = c
			clientOrder = append(clientOrder, t.ClientID)
		}
		c.Hours += *t.ActualTime
		c.Cost += *t.ActualTime * hourlyRate
		c.TaskCount++
	}

	out := CostSummary{
		HourlyRate:       hourlyRate,
		EmployeeData:     make([]EmployeeCost, 0, len(employees)),
		RoleDistribution: make(map[string]RoleCost),
		ClientCosts:      make([]ClientCost, 0, len(clients)),
	}
	for _, e := range employees {
		hours := hoursByUser[e.UserID]
		taskHours := taskHoursByUser[e.UserID]
		ec := EmployeeCost{
			UserID:      e.UserID,
			Name:        e.Name,
			HoursWorked: hours,
			TaskHours:   taskHours,
			Cost:        hours * hourlyRate,
		}
		if hours > 0 {
			ec.ProductivityRatio = taskHours / hours
		}
		out.EmployeeData = append(out.EmployeeData, ec)

		role := e.Role
		if role == "" {
			role = "Unknown"
		}
		rc := out.RoleDistribution[role]
		rc.Count++
		rc.Hours += hours
		rc.Cost += hours * hourlyRate
		out.RoleDistribution[role] = rc

		out.Summary.TotalHours += hours
		out.Summary.TotalCost += ec.Cost
		out.Summary.TotalTaskHours += taskHours
	}
	out.Summary.TotalEmployees = len(employees)
	if out.Summary.TotalHours > 0 {
		out.Summary.ProductivityRatio = out.Summary.TotalTaskHours / out.Summary.TotalHours
	}

	for _, id := range clientOrder {
		out.ClientCosts = append(out.ClientCosts, *clients[id])
	}
	sort.SliceStable(out.ClientCosts, func(i, j int) bool {
		return out.ClientCosts[i].Cost > out.ClientCosts[j].Cost
	})
	return out
}
