package repository

import (
	"fmt"

	"github.com/fairdirect/foodrescue-content/internal/app/model"
	apperrors "github.com/fairdirect/foodrescue-content/internal/errors"
	"github.com/fairdirect/foodrescue-content/pkg/logger"
	"gorm.io/gorm"
)

// LiteratureRef is one bibliographic reference cited by a topic.
type LiteratureRef struct {
	RefID   string
	Details string
}

// TopicExport is a topic joined with its category names and references,
// for DocBook rendering.
type TopicExport struct {
	Topic      model.Topic
	Categories []string
	References []model.Literature
}

type TopicRepository interface {
	// AddTopic stores a topic and links it to its target categories.
	// Topics reference categories by canonical English name; unresolved
	// names are skipped with a warning. Literature records are created
	// on first citation and shared between topics afterwards.
	AddTopic(topic *model.Topic, categoryNames []string, refs []LiteratureRef) error

	ListForExport() ([]TopicExport, error)
}

type topicRepository struct {
	db         *gorm.DB
	categories CategoryRepository
	warnings   *apperrors.WarningCounter
}

func NewTopicRepository(db *gorm.DB, categories CategoryRepository, warnings *apperrors.WarningCounter) TopicRepository {
	return &topicRepository{db: db, categories: categories, warnings: warnings}
}

func (r *topicRepository) AddTopic(topic *model.Topic, categoryNames []string, refs []LiteratureRef) error {
	if err := r.db.Create(topic).Error; err != nil {
		return fmt.Errorf("failed to create topic %q: %w", topic.Title, err)
	}

	for _, name := range categoryNames {
		id, found, err := r.categories.FindIDByName(name, "en")
		if err != nil {
			return err
		}
		if !found {
			logger.Warn("Topic references unknown category, skipping", map[string]interface{}{
				"topic":    topic.Title,
				"category": name,
			})
			r.warnings.Add(1)
			continue
		}
		assoc := model.TopicCategory{TopicID: topic.ID, CategoryID: id}
		if err := r.db.Create(&assoc).Error; err != nil {
			return fmt.Errorf("failed to link topic %q to category %q: %w", topic.Title, name, err)
		}
	}

	for _, ref := range refs {
		var record model.Literature
		if err := r.db.Where(model.Literature{RefID: ref.RefID}).
			Attrs(model.Literature{Details: ref.Details}).
			FirstOrCreate(&record).Error; err != nil {
			return fmt.Errorf("failed to find or create literature %q: %w", ref.RefID, err)
		}
		assoc := model.TopicLiterature{TopicID: topic.ID, LiteratureID: record.ID}
		if err := r.db.Create(&assoc).Error; err != nil {
			return fmt.Errorf("failed to link topic %q to literature %q: %w", topic.Title, ref.RefID, err)
		}
	}

	return nil
}

func (r *topicRepository) ListForExport() ([]TopicExport, error) {
	var topics []model.Topic
	if err := r.db.Order("id ASC").Find(&topics).Error; err != nil {
		return nil, err
	}

	exports := make([]TopicExport, 0, len(topics))
	for _, topic := range topics {
		export := TopicExport{Topic: topic}

		var categoryIDs []uint
		if err := r.db.Model(&model.TopicCategory{}).
			Where("topic_id = ?", topic.ID).
			Order("category_id ASC").
			Pluck("category_id", &categoryIDs).Error; err != nil {
			return nil, err
		}
		for _, id := range categoryIDs {
			name, err := r.mainNameOf(id)
			if err != nil {
				return nil, err
			}
			export.Categories = append(export.Categories, name)
		}

		var refs []model.Literature
		if err := r.db.Model(&model.Literature{}).
			Joins("JOIN topic_literature ON topic_literature.literature_id = literature.id").
			Where("topic_literature.topic_id = ?", topic.ID).
			Order("literature.id ASC").
			Find(&refs).Error; err != nil {
			return nil, err
		}
		export.References = refs

		exports = append(exports, export)
	}
	return exports, nil
}

// mainNameOf picks the canonical display name of a category: English
// preferred, else the first recorded name.
func (r *topicRepository) mainNameOf(categoryID uint) (string, error) {
	var names []model.CategoryName
	if err := r.db.Where("category_id = ?", categoryID).
		Order("id ASC").
		Find(&names).Error; err != nil {
		return "", err
	}
	for _, n := range names {
		if n.Lang == "en" {
			return n.Name, nil
		}
	}
	if len(names) > 0 {
		return names[0].Name, nil
	}
	return "", nil
}
