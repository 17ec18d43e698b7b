package dto

type GenerateFeesResponse struct {
	Message       string `json:"message"`
	Generated     int    `json:"generated"`
	Skipped       int    `json:"skipped"`
	Errors        int    `json:"errors"`
	Total         int    `json:"total"`
	MarkedOverdue int64  `json:"markedOverdue"`
}

type CheckSubscriptionsResponse struct {
	Message                    string `json:"message"`
	SubscriptionsExpired       int    `json:"subscriptionsExpired"`
	AdminsDisabled             int    `json:"adminsDisabled"`
	WarningsSent               int    `json:"warningsSent"`
	Errors                     int    `json:"errors"`
	TotalExpiredSubscriptions  int    `json:"totalExpiredSubscriptions"`
	TotalExpiringSubscriptions int    `json:"totalExpiringSubscriptions"`
}
