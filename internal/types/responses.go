package types

import "time"

type MessageResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	ID              uint    `json:"id"`
	Username        string  `json:"username"`
	FirstName       string  `json:"first_name"`
	LastName        string  `json:"last_name"`
	DNI             int     `json:"dni"`
	Type            string  `json:"type"`
	Email           string  `json:"email"`
	ProfileImageURL *string `json:"profile_image_url"`
}

type LoginResponse struct {
	Status  string       `json:"status"`
	Token   string       `json:"token"`
	User    UserResponse `json:"user"`
	Message string       `json:"message"`
}

type UserDetailResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	DNI       int    `json:"dni"`
	Type      string `json:"type"`
	Email     string `json:"email"`
}

type CareerResponse struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type UserCareerResponse struct {
	Usuario string `json:"usuario"`
	Carrera string `json:"carrera"`
}

type StudentResponse struct {
	ID        uint   `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	DNI       int    `json:"dni"`
}

type CareerStudentsResponse struct {
	Career   string            `json:"career"`
	Students []StudentResponse `json:"students"`
}

type CareerSummaryResponse struct {
	CareerID     uint   `json:"career_id"`
	CareerName   string `json:"career_name"`
	StudentCount int64  `json:"student_count"`
}

// Keys kept as the web client reads them.
type DetailedPaymentResponse struct {
	ID            uint      `json:"id_pago"`
	Amount        int       `json:"monto"`
	CreatedAt     time.Time `json:"afecha de pago"`
	AffectedMonth string    `json:"mes_pagado"`
	Student       string    `json:"alumno"`
	Career        string    `json:"carrera afectada"`
}

type UserPaymentResponse struct {
	ID            uint      `json:"id"`
	Amount        int       `json:"amount"`
	CreatedAt     time.Time `json:"fecha_pago"`
	Career        string    `json:"carrera"`
	AffectedMonth string    `json:"mes_afectado"`
}

type PaymentResponse struct {
	ID            uint   `json:"id"`
	UserID        uint   `json:"id_user"`
	CareerID      uint   `json:"id_career"`
	Amount        int    `json:"amount"`
	AffectedMonth string `json:"affected_month"`
}

type InboxMessageResponse struct {
	ID        uint      `json:"id"`
	SenderID  uint      `json:"sender_id"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
	IsRead    bool      `json:"is_read"`
}
