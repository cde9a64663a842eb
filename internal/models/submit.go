package models

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FlexFloat принимает и число, и числовую строку ("45.3842")
type FlexFloat float64

func (f *FlexFloat) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}

	// пустая или нечисловая строка - ошибка, а не молчаливый ноль
	s := strings.TrimSpace(strings.Trim(raw, `"`))
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("некорректное числовое значение %q", s)
	}

	*f = FlexFloat(value)
	return nil
}

// FlexInt принимает и число, и числовую строку ("1200")
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}

	s := strings.TrimSpace(strings.Trim(raw, `"`))
	value, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return fmt.Errorf("некорректное целочисленное значение %q", s)
	}

	*f = FlexInt(value)
	return nil
}

// SubmitUser - блок user входящего запроса (внешние имена полей ФСТР)
type SubmitUser struct {
	Email string `json:"email" validate:"required,email"`
	Fam   string `json:"fam" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Otc   string `json:"otc"`
	Phone string `json:"phone"`
}

type SubmitCoords struct {
	Latitude  *FlexFloat `json:"latitude"`
	Longitude *FlexFloat `json:"longitude"`
	Height    *FlexInt   `json:"height"`
}

type SubmitLevel struct {
	Winter *string `json:"winter"`
	Summer *string `json:"summer"`
	Autumn *string `json:"autumn"`
	Spring *string `json:"spring"`
}

// SubmitImage - элемент списка images: либо новая картинка {data, title},
// либо ссылка на существующую {id, title?}
type SubmitImage struct {
	ID    *int64  `json:"id"`
	Data  *string `json:"data"`
	Title *string `json:"title"`
}

// SubmitRequest - тело POST /submitData/.
// beauty_title и beautyTitle принимаются оба, приоритет у beauty_title.
type SubmitRequest struct {
	BeautyTitle    string        `json:"beauty_title"`
	BeautyTitleAlt string        `json:"beautyTitle"`
	Title          string        `json:"title" validate:"required"`
	OtherTitles    string        `json:"other_titles"`
	Connect        string        `json:"connect"`
	User           *SubmitUser   `json:"user" validate:"required"`
	Coords         *SubmitCoords `json:"coords" validate:"required"`
	Level          *SubmitLevel  `json:"level"`
	Images         []SubmitImage `json:"images"`
}

// UpdateRequest - тело PATCH /submitData/{id}/.
// nil-поле означает "не менять". Блок user игнорируется целиком.
type UpdateRequest struct {
	BeautyTitle    *string         `json:"beauty_title"`
	BeautyTitleAlt *string         `json:"beautyTitle"`
	Title          *string         `json:"title"`
	OtherTitles    *string         `json:"other_titles"`
	Connect        *string         `json:"connect"`
	Coords         *SubmitCoords   `json:"coords"`
	Level          *SubmitLevel    `json:"level"`
	Images         *[]SubmitImage  `json:"images"`
	User           json.RawMessage `json:"user"`
}
