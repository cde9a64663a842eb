package models

import (
	"time"
)

// Статусы модерации перевала
const (
	StatusNew      = "new"
	StatusPending  = "pending"
	StatusAccepted = "accepted"
	StatusRejected = "rejected"
)

type User struct {
	ID         int64  `json:"id" db:"id"`
	Email      string `json:"email" db:"email"`
	FirstName  string `json:"firstName" db:"first_name"`
	LastName   string `json:"lastName" db:"last_name"`
	MiddleName string `json:"middleName" db:"middle_name"`
	Phone      string `json:"phone" db:"phone"`
}

type Coords struct {
	ID        int64   `json:"id" db:"id"`
	Latitude  float64 `json:"latitude" db:"latitude"`
	Longitude float64 `json:"longitude" db:"longitude"`
	Height    int     `json:"height" db:"height"`
}

type Pereval struct {
	ID          int64     `json:"id" db:"id"`
	BeautyTitle string    `json:"beautyTitle" db:"beauty_title"`
	Title       string    `json:"title" db:"title"`
	OtherTitles string    `json:"otherTitles" db:"other_titles"`
	Connect     string    `json:"connect" db:"connect"`
	AddTime     time.Time `json:"addTime" db:"add_time"`
	WinterLevel string    `json:"winterLevel" db:"winter_level"`
	SummerLevel string    `json:"summerLevel" db:"summer_level"`
	AutumnLevel string    `json:"autumnLevel" db:"autumn_level"`
	SpringLevel string    `json:"springLevel" db:"spring_level"`
	Status      string    `json:"status" db:"status"`
	UserID      int64     `json:"-" db:"user_id"`
	CoordsID    int64     `json:"-" db:"coords_id"`
}

type Image struct {
	ID        int64     `json:"id" db:"id"`
	Img       []byte    `json:"-" db:"img"`
	Title     string    `json:"title" db:"title"`
	DateAdded time.Time `json:"dateAdded" db:"date_added"`
}

// Area - элемент иерархии горных районов (pereval_areas)
type Area struct {
	ID       int64  `json:"id" db:"id"`
	IDParent int64  `json:"id_parent" db:"id_parent"`
	Title    string `json:"title" db:"title"`
}

// PerevalDetail - полный перевал со всеми связанными записями
type PerevalDetail struct {
	Pereval Pereval
	User    User
	Coords  Coords
	Images  []Image
}
