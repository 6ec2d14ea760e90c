package model

import "time"

// Topic is one unit of food-rescue advisory content, targeted at one or
// more categories via their canonical English names.
type Topic struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Title     string    `gorm:"type:varchar(200);not null" json:"title"`
	Author    string    `gorm:"type:varchar(100)" json:"author"`
	Section   string    `gorm:"type:varchar(50)" json:"section"`
	Version   time.Time `json:"version"` // content version date, not a row timestamp
	Body      string    `gorm:"type:text" json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

func (Topic) TableName() string {
	return "topics"
}

// TopicCategory links a topic to one of its target categories.
type TopicCategory struct {
	TopicID    uint `gorm:"primaryKey" json:"topic_id"`
	CategoryID uint `gorm:"primaryKey;index" json:"category_id"`

	Topic    Topic    `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Category Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (TopicCategory) TableName() string {
	return "topic_categories"
}

// Literature is one bibliographic reference, keyed by its citation
// identifier (e.g. "WHO-2019").
type Literature struct {
	ID      uint   `gorm:"primarykey" json:"id"`
	RefID   string `gorm:"type:varchar(100);uniqueIndex;not null" json:"ref_id"`
	Details string `gorm:"type:text" json:"details"`
}

func (Literature) TableName() string {
	return "literature"
}

// TopicLiterature links a topic to a literature reference it cites.
type TopicLiterature struct {
	TopicID      uint `gorm:"primaryKey" json:"topic_id"`
	LiteratureID uint `gorm:"primaryKey;index" json:"literature_id"`

	Topic      Topic      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Literature Literature `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (TopicLiterature) TableName() string {
	return "topic_literature"
}
