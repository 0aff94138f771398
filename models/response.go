package models

type LoginSuccessResponse struct {
	Message string `json:"message" example:"Login successful"`
	Token   string `json:"token" example:"v2.local.Ft9QcxZhJXEYyb7-bMM..."`
	UserID  string `json:"user_id" example:"507f1f77bcf86cd799439011"`
	Role    string `json:"role" example:"admin"`
}

type RegisterSuccessResponse struct {
	Message string `json:"message" example:"User registered successfully"`
	UserID  string `json:"user_id" example:"507f1f77bcf86cd799439011"`
}

type DeleteSuccessResponse struct {
	Message string `json:"message" example:"Record removed"`
}

type ErrorResponse struct {
	Error   string `json:"error" example:"Invalid request body"`
	Details string `json:"details,omitempty" example:"validation failed"`
}

type ValidationErrorResponse struct {
	Errors string `json:"errors" example:"amount: must be greater than 0"`
}

// DashboardStats aggregates company-wide counters and money totals.
type DashboardStats struct {
	TotalProjects      int64   `json:"total_projects"`
	ActiveProjects     int64   `json:"active_projects"`
	TotalWorkers       int64   `json:"total_workers"`
	TotalOwners        int64   `json:"total_owners"`
	TotalMaterialsCost float64 `json:"total_materials_cost"`
	TotalPayments      float64 `json:"total_payments"`
	TotalSalaries      float64 `json:"total_salaries"`
	PendingSalaries    float64 `json:"pending_salaries"`
}

type Activity struct {
	Type        string      `json:"type"`
	Description string      `json:"description"`
	Date        interface{} `json:"date"`
	Data        interface{} `json:"data"`
}

type UpcomingPayments struct {
	PendingSalaries    []Worker  `json:"pending_salaries"`
	LowBalanceProjects []Project `json:"low_balance_projects"`
}

// ProjectFinancialRow is one project's slice of the financial report.
type ProjectFinancialRow struct {
	Project       Project `json:"project"`
	MaterialCost  float64 `json:"material_cost"`
	PaymentAmount float64 `json:"payment_amount"`
	SalaryAmount  float64 `json:"salary_amount"`
	Expenses      float64 `json:"expenses"`
	NetProfit     float64 `json:"net_profit"`
}
