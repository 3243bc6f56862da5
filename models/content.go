package models

import "time"

// AppSettings carries the contact channels and footer copy of the business.
type AppSettings struct {
	ID                  string    `json:"id"`
	EmailAddress        string    `json:"email_address"`
	PhoneNumber         string    `json:"phone_number"`
	Location            string    `json:"location"`
	FooterAboutText     string    `json:"footer_about_text,omitempty"`
	WorkingHours        string    `json:"working_hours,omitempty"`
	FacebookURL         string    `json:"facebook_url,omitempty"`
	InstagramURL        string    `json:"instagram_url,omitempty"`
	TiktokURL           string    `json:"tiktok_url,omitempty"`
	WhatsappURL         string    `json:"whatsapp_url,omitempty"`
	FooterCopyrightText string    `json:"footer_copyright_text,omitempty"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type About struct {
	ID                   string    `json:"id"`
	AboutDescription     string    `json:"about_description"`
	PetHotelCustomers    int       `json:"pet_hotel_customers"`
	PetGroomingCustomers int       `json:"pet_grooming_customers"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

type AboutContent struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	ImageURL    string    `json:"image_url"`
	AltText     string    `json:"alt_text,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type SeoSettings struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Keywords      string    `json:"keywords,omitempty"`
	OgImageURL    string    `json:"og_image_url,omitempty"`
	OgTitle       string    `json:"og_title,omitempty"`
	OgDescription string    `json:"og_description,omitempty"`
	TwitterCard   string    `json:"twitter_card,omitempty"`
	CanonicalURL  string    `json:"canonical_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ServicesSection is the header copy shown above the services list.
type ServicesSection struct {
	ID          string    `json:"id"`
	Heading     string    `json:"heading"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type BlogTag struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// BlogPost is addressed externally only by Slug.
type BlogPost struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Slug          string    `json:"slug"`
	Excerpt       string    `json:"excerpt"`
	Content       string    `json:"content"`
	CoverImageURL string    `json:"cover_image_url"`
	Author        string    `json:"author"`
	Tags          []string  `json:"tags,omitempty"`
	ReadTime      int       `json:"read_time,omitempty"`
	IsPublished   bool      `json:"is_published"`
	IsFeatured    bool      `json:"is_featured"`
	ViewCount     int       `json:"view_count"`
	OrderIndex    int       `json:"order_index"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// LastModified is UpdatedAt, or CreatedAt for posts never edited.
func (p BlogPost) LastModified() time.Time {
	if p.UpdatedAt.IsZero() {
		return p.CreatedAt
	}
	return p.UpdatedAt
}

// HasTag reports exact membership of tag in the post's tag list.
func (p BlogPost) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

type ServiceType string

const (
	ServiceHotel    ServiceType = "hotel"
	ServiceGrooming ServiceType = "grooming"
	ServiceDaycare  ServiceType = "daycare"
)

type ServiceItem struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Features    []string    `json:"features,omitempty"`
	ServiceType ServiceType `json:"service_type"`
	OrderIndex  int         `json:"order_index"`
	IsActive    bool        `json:"is_active"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

type SliderItem struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Subtitle    string    `json:"subtitle,omitempty"`
	Description string    `json:"description,omitempty"`
	ImageURL    string    `json:"image_url"`
	OrderIndex  int       `json:"order_index"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type GalleryItem struct {
	ID         string    `json:"id"`
	ImageURL   string    `json:"image_url"`
	AltText    string    `json:"alt_text,omitempty"`
	Title      string    `json:"title,omitempty"`
	OrderIndex int       `json:"order_index"`
	IsActive   bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type CustomerReview struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Rating     int       `json:"rating"` // 1-5
	Text       string    `json:"text"`
	Avatar     string    `json:"avatar,omitempty"`
	ReviewDate string    `json:"review_date"`
	OrderIndex int       `json:"order_index"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ReviewStats is computed by the API and never derived from the review list.
type ReviewStats struct {
	ID            string    `json:"id"`
	AverageRating float64   `json:"average_rating"`
	TotalReviews  int       `json:"total_reviews"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type PetType string

const (
	PetDog PetType = "dog"
	PetCat PetType = "cat"
)

// ContactMessage is the body of POST contact.
type ContactMessage struct {
	Name    string  `json:"name" form:"name"`
	Email   string  `json:"email" form:"email"`
	Phone   string  `json:"phone,omitempty" form:"phone"`
	PetType PetType `json:"pet_type,omitempty" form:"pet_type"`
	Subject string  `json:"subject" form:"subject"`
	Message string  `json:"message" form:"message"`
}

type ContactMessageResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	PetType   PetType   `json:"pet_type,omitempty"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
