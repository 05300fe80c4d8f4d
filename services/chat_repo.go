package services

import (
	"context"
	"errors"
	"time"

	"chatbot-backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	ErrChatNotFound = errors.New("chat not found")
	ErrAlreadyRated = errors.New("conversation has already been rated")
)

// ChatRepo is the persistence client for the chats collection. Pure
// request/response wrappers: no internal state, no retry, no caching.
type ChatRepo interface {
	Create(ctx context.Context, convo *models.Conversation) error
	AppendMessage(ctx context.Context, chatID string, msg models.ChatMessage) error
	SetMobile(ctx context.Context, chatID, mobile string, welcome models.ChatMessage) error
	SubmitRating(ctx context.Context, chatID string, rating int, feedback string) error
	GetByChatID(ctx context.Context, chatID string) (*models.Conversation, error)
	List(ctx context.Context, status string, limit int64) ([]models.Conversation, error)
	Metrics(ctx context.Context) (*ChatMetrics, error)
}

type ChatMetrics struct {
	TotalConversations int64    `json:"total_conversations"`
	TotalMessages      int64    `json:"total_messages"`
	RatingsSubmitted   int64    `json:"ratings_submitted"`
	AverageRating      *float64 `json:"average_rating,omitempty"`
}

const mongoOpTimeout = 5 * time.Second

// MongoChatRepo stores conversations in MongoDB, one document per session.
// Each append is a single atomic $push so messages are never reordered
// or truncated.
type MongoChatRepo struct {
	Col *mongo.Collection
}

func NewMongoChatRepo(col *mongo.Collection) *MongoChatRepo {
	return &MongoChatRepo{Col: col}
}

func (r *MongoChatRepo) Create(ctx context.Context, convo *models.Conversation) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	_, err := r.Col.InsertOne(ctx, convo)
	return err
}

func (r *MongoChatRepo) AppendMessage(ctx context.Context, chatID string, msg models.ChatMessage) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	update := bson.M{
		"$push": bson.M{"messages": msg},
		"$set":  bson.M{"last_updated": time.Now()},
	}

	result, err := r.Col.UpdateOne(ctx, bson.M{"chat_id": chatID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrChatNotFound
	}
	return nil
}

// SetMobile records the mobile number and appends the welcome message in a
// single atomic update, so the document gains exactly one message.
func (r *MongoChatRepo) SetMobile(ctx context.Context, chatID, mobile string, welcome models.ChatMessage) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	update := bson.M{
		"$set": bson.M{
			"user_details.mobile": mobile,
			"last_updated":        time.Now(),
		},
		"$push": bson.M{"messages": welcome},
	}

	result, err := r.Col.UpdateOne(ctx, bson.M{"chat_id": chatID}, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrChatNotFound
	}
	return nil
}

// SubmitRating writes rating, feedback and closed_at and closes the
// conversation. The rating $exists filter enforces the absent -> value
// transition: a second submission matches nothing.
func (r *MongoChatRepo) SubmitRating(ctx context.Context, chatID string, rating int, feedback string) error {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	now := time.Now()
	filter := bson.M{
		"chat_id": chatID,
		"rating":  bson.M{"$exists": false},
	}
	update := bson.M{
		"$set": bson.M{
			"rating":       rating,
			"feedback":     feedback,
			"closed_at":    now,
			"status":       models.ChatStatusClosed,
			"last_updated": now,
		},
	}

	result, err := r.Col.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		// Either the chat does not exist or it carries a rating already.
		count, err := r.Col.CountDocuments(ctx, bson.M{"chat_id": chatID})
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrChatNotFound
		}
		return ErrAlreadyRated
	}
	return nil
}

func (r *MongoChatRepo) GetByChatID(ctx context.Context, chatID string) (*models.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	var convo models.Conversation
	err := r.Col.FindOne(ctx, bson.M{"chat_id": chatID}).Decode(&convo)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrChatNotFound
		}
		return nil, err
	}
	return &convo, nil
}

func (r *MongoChatRepo) List(ctx context.Context, status string, limit int64) ([]models.Conversation, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "last_updated", Value: -1}}).
		SetLimit(limit)

	cursor, err := r.Col.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var convos []models.Conversation
	if err := cursor.All(ctx, &convos); err != nil {
		return nil, err
	}
	return convos, nil
}

// Metrics aggregates conversation, message and rating counts for the
// dashboard. Message totals sum the sizes of the messages arrays.
func (r *MongoChatRepo) Metrics(ctx context.Context) (*ChatMetrics, error) {
	ctx, cancel := context.WithTimeout(ctx, mongoOpTimeout)
	defer cancel()

	metrics := &ChatMetrics{}

	total, err := r.Col.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, err
	}
	metrics.TotalConversations = total

	// total messages: project messagesCount = size(ifNull(messages, []))
	// then sum across documents
	msgPipeline := []bson.D{
		{{Key: "$project", Value: bson.D{
			{Key: "messagesCount", Value: bson.D{
				{Key: "$size", Value: bson.D{
					{Key: "$ifNull", Value: bson.A{"$messages", bson.A{}}},
				}},
			}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "total", Value: bson.D{{Key: "$sum", Value: "$messagesCount"}}},
		}}},
	}

	cursor, err := r.Col.Aggregate(ctx, msgPipeline)
	if err != nil {
		return nil, err
	}
	var msgResult []struct {
		Total int64 `bson:"total"`
	}
	if err := cursor.All(ctx, &msgResult); err != nil {
		return nil, err
	}
	if len(msgResult) > 0 {
		metrics.TotalMessages = msgResult[0].Total
	}

	// rating count + average over conversations that carry one
	ratingPipeline := []bson.D{
		{{Key: "$match", Value: bson.D{
			{Key: "rating", Value: bson.D{{Key: "$exists", Value: true}}},
		}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
			{Key: "average", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
		}}},
	}

	cursor, err = r.Col.Aggregate(ctx, ratingPipeline)
	if err != nil {
		return nil, err
	}
	var ratingResult []struct {
		Count   int64   `bson:"count"`
		Average float64 `bson:"average"`
	}
	if err := cursor.All(ctx, &ratingResult); err != nil {
		return nil, err
	}
	if len(ratingResult) > 0 {
		metrics.RatingsSubmitted = ratingResult[0].Count
		avg := ratingResult[0].Average
		metrics.AverageRating = &avg
	}

	return metrics, nil
}
