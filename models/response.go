package models

// ErrorResponse représente une réponse d'erreur
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// SuccessResponse représente une réponse de succès générique
type SuccessResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// AdminLoginRequest représente la connexion au tableau de bord
type AdminLoginRequest struct {
	Password string `json:"password"`
}

// AdminStatsResponse représente les statistiques du tableau de bord
type AdminStatsResponse struct {
	TotalRegistrations int64            `json:"totalRegistrations"`
	Attended           int64            `json:"attended"`
	ConfirmedPayments  int64            `json:"confirmedPayments"`
	ByTicketType       map[string]int64 `json:"byTicketType"`
	TotalVolunteers    int64            `json:"totalVolunteers"`
	TotalContacts      int64            `json:"totalContacts"`
	PublishedCourses   int64            `json:"publishedCourses"`
}

// RegistrationStats regroupe les compteurs des inscriptions actives
type RegistrationStats struct {
	Total        int64
	Attended     int64
	Confirmed    int64
	ByTicketType map[string]int64
}
