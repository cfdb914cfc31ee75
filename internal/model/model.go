package model

import "time"

// User is a registered app login. PasswordHash holds a bcrypt digest;
// ResetTokenHash holds the SHA-256 hex of an outstanding reset token, never
// the token itself.
type User struct {
	EmployeeID          string     `json:"employee_id"`
	PasswordHash        string     `json:"-"`
	FullName            string     `json:"full_name"`
	Email               string     `json:"email"`
	Role                string     `json:"role"`
	ResetTokenHash      *string    `json:"-"`
	ResetTokenExpiresAt *time.Time `json:"-"`
	CreatedAt           time.Time  `json:"-"`
	LastLogin           time.Time  `json:"last_login"`
}

// Executive is a roster record. Only executives with the sales role may
// register an app login.
type Executive struct {
	EmployeeID  string  `json:"employee_id"`
	FullName    string  `json:"full_name"`
	Email       string  `json:"email"`
	Role        string  `json:"role"`
	City        string  `json:"city"`
	Cluster     string  `json:"cluster"`
	VariablePay float64 `json:"variable_pay"`
}

type Target struct {
	Metric           string  `json:"metric"`
	Unit             string  `json:"unit"`
	Achieved         float64 `json:"achieved"`
	Target           float64 `json:"target"`
	Slab1Target      float64 `json:"slab1_target"`
	Slab2Target      float64 `json:"slab2_target"`
	Slab3Target      float64 `json:"slab3_target"`
	IncentivePending float64 `json:"incentive_pending"`
}

type RankEntry struct {
	EmployeeID string  `json:"employee_id"`
	FullName   string  `json:"full_name"`
	GroupName  string  `json:"group_name,omitempty"`
	Rank       int     `json:"rank"`
	Score      float64 `json:"score"`
}

type Customer struct {
	Name        string     `json:"name"`
	Phone       string     `json:"phone"`
	Gap         float64    `json:"gap"`
	LastOrderAt *time.Time `json:"last_order_at,omitempty"`
}

type TargetCustomer struct {
	Name     string  `json:"name"`
	Phone    string  `json:"phone"`
	Achieved float64 `json:"achieved"`
	Target   float64 `json:"target"`
}

// IncentiveSummary is the aggregated slab view for one period.
type IncentiveSummary struct {
	AchievedAmount float64 `json:"achieved_amount"`
	MaxTarget      float64 `json:"max_target"`
	Slab1Target    float64 `json:"slab1_target"`
	Slab2Target    float64 `json:"slab2_target"`
	Slab3Target    float64 `json:"slab3_target"`
}

type Notification struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}
