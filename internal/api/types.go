package api

type BookAppointmentRequest struct {
	PatientID      string `json:"patient_id"`
	PractitionerID string `json:"practitioner_id"`
	Treatment      string `json:"treatment"`
	DateTime       string `json:"date_time"`
}

type CancelAppointmentRequest struct {
	PractitionerID string `json:"practitioner_id"`
	DateTime       string `json:"date_time"`
}

type ChangeStatusRequest struct {
	PractitionerID string `json:"practitioner_id"`
	DateTime       string `json:"date_time"`
	Status         string `json:"status"`
}

type AppointmentResponse struct {
	PatientID      string  `json:"patient_id"`
	PatientName    string  `json:"patient_name"`
	PractitionerID string  `json:"practitioner_id"`
	Practitioner   string  `json:"practitioner"`
	Treatment      string  `json:"treatment"`
	Duration       int     `json:"duration_minutes"`
	Cost           float64 `json:"cost"`
	DateTime       string  `json:"date_time"`
	Status         string  `json:"status"`
}

type SlotResponse struct {
	PractitionerID string `json:"practitioner_id"`
	Treatment      string `json:"treatment"`
	DateTime       string `json:"date_time"`
}

type CreatePatientRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type PatientResponse struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

type PractitionerResponse struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Phone     string   `json:"phone"`
	Expertise []string `json:"expertise"`
}

type PractitionerReportResponse struct {
	Practitioner PractitionerResponse  `json:"practitioner"`
	Attended     []AppointmentResponse `json:"attended"`
	Booked       []AppointmentResponse `json:"booked"`
	Cancelled    []AppointmentResponse `json:"cancelled"`
	Total        int                   `json:"total"`
	Revenue      float64               `json:"revenue"`
}

type ReportResponse struct {
	Practitioners      []PractitionerReportResponse `json:"practitioners"`
	TotalPractitioners int                          `json:"total_practitioners"`
	TotalPatients      int                          `json:"total_patients"`
	TotalAppointments  int                          `json:"total_appointments"`
	TotalAttended      int                          `json:"total_attended"`
	TotalBooked        int                          `json:"total_booked"`
	TotalCancelled     int                          `json:"total_cancelled"`
	TotalRevenue       float64                      `json:"total_revenue"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}
