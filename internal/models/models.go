package models

import (
	"time"
)

// Meta is the metadata every stored document carries.
type Meta struct {
	ID        string    `json:"id" bson:"_id"`
	CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt" bson:"updatedAt"`
}

// DocMeta gives the store access to the metadata of an embedding document.
func (m *Meta) DocMeta() *Meta { return m }

type Admin struct {
	Meta         `bson:",inline"`
	Name         string `json:"name" bson:"name"`
	Email        string `json:"email" bson:"email"` // unique, lower-cased
	PasswordHash string `json:"passwordHash" bson:"passwordHash"`
	Role         Role   `json:"role" bson:"role"`
}

// Contact is an inquiry submitted through the public contact form.
type Contact struct {
	Meta    `bson:",inline"`
	Name    string        `json:"name" bson:"name"`
	Email   string        `json:"email" bson:"email"`
	Phone   string        `json:"phone,omitempty" bson:"phone,omitempty"`
	Message string        `json:"message" bson:"message"`
	Status  ContactStatus `json:"status" bson:"status"`
}

type Order struct {
	Meta        `bson:",inline"`
	OrderNumber string      `json:"orderNumber" bson:"orderNumber"` // Public "A7X9..." reference
	Name        string      `json:"name" bson:"name"`
	Email       string      `json:"email" bson:"email"`
	Phone       string      `json:"phone" bson:"phone"`
	Message     string      `json:"message,omitempty" bson:"message,omitempty"`
	Plan        string      `json:"plan" bson:"plan"` // display name at the time of ordering
	PlanID      string      `json:"planId" bson:"planId"`
	Price       *float64    `json:"price,omitempty" bson:"price,omitempty"`
	Currency    string      `json:"currency" bson:"currency"`
	Status      OrderStatus `json:"status" bson:"status"`
}

// SettingsID is the fixed id of the site settings singleton.
const SettingsID = "site"

type Settings struct {
	Meta      `bson:",inline"`
	Instagram string `json:"instagram" bson:"instagram"`
	LinkedIn  string `json:"linkedin" bson:"linkedin"`
}

type Blog struct {
	Meta       `bson:",inline"`
	Title      string   `json:"title" bson:"title"`
	Slug       string   `json:"slug" bson:"slug"`
	Excerpt    string   `json:"excerpt" bson:"excerpt"`
	Content    string   `json:"content" bson:"content"`
	CoverImage string   `json:"coverImage" bson:"coverImage"`
	Author     string   `json:"author" bson:"author"`
	Tags       []string `json:"tags" bson:"tags"`
	Published  bool     `json:"published" bson:"published"`
}

type Pricing struct {
	Meta        `bson:",inline"`
	Name        string        `json:"name" bson:"name"`
	Price       float64       `json:"price" bson:"price"`
	Currency    string        `json:"currency" bson:"currency"`
	Period      BillingPeriod `json:"period" bson:"period"`
	Description string        `json:"description" bson:"description"`
	Features    []string      `json:"features" bson:"features"`
	Highlighted bool          `json:"highlighted" bson:"highlighted"`
}

type Testimonial struct {
	Meta    `bson:",inline"`
	Name    string `json:"name" bson:"name"`
	Role    string `json:"role" bson:"role"` // job title of the client, not an admin role
	Company string `json:"company" bson:"company"`
	Quote   string `json:"quote" bson:"quote"`
	Avatar  string `json:"avatar" bson:"avatar"`
	Rating  int    `json:"rating" bson:"rating"`
}

// Project is a portfolio entry shown under /works.
type Project struct {
	Meta         `bson:",inline"`
	Title        string   `json:"title" bson:"title"`
	Slug         string   `json:"slug" bson:"slug"`
	Category     string   `json:"category" bson:"category"`
	Description  string   `json:"description" bson:"description"`
	Image        string   `json:"image" bson:"image"`
	Link         string   `json:"link" bson:"link"`
	Technologies []string `json:"technologies" bson:"technologies"`
	Featured     bool     `json:"featured" bson:"featured"`
}
