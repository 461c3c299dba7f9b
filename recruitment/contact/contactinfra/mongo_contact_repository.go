package contactinfra

import (
	"context"
	"errors"
	"time"

	"github.com/youssef9656/server/pkg/errx"
	"github.com/youssef9656/server/pkg/kernel"
	"github.com/youssef9656/server/recruitment/contact"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type contactDocument struct {
	ID        string     `bson:"_id"`
	FullName  string     `bson:"fullName"`
	Email     string     `bson:"email"`
	Phone     string     `bson:"phone,omitempty"`
	Subject   string     `bson:"subject"`
	Message   string     `bson:"message"`
	Status    string     `bson:"status,omitempty"`
	CreatedAt time.Time  `bson:"createdAt"`
	UpdatedAt *time.Time `bson:"updatedAt,omitempty"`
}

func (d *contactDocument) toEntity() contact.Message {
	return contact.Message{
		ID:        kernel.ContactID(d.ID),
		FullName:  d.FullName,
		Email:     kernel.Email(d.Email),
		Phone:     d.Phone,
		Subject:   d.Subject,
		Body:      d.Message,
		Status:    d.Status,
		CreatedAt: d.CreatedAt,
		UpdatedAt: d.UpdatedAt,
	}
}

type MongoContactRepository struct {
	coll *mongo.Collection
}

func NewMongoContactRepository(db *mongo.Database) *MongoContactRepository {
	return &MongoContactRepository{coll: db.Collection("contacts")}
}

func (r *MongoContactRepository) Create(ctx context.Context, m *contact.Message) error {
	doc := contactDocument{
		ID:        string(m.ID),
		FullName:  m.FullName,
		Email:     string(m.Email),
		Phone:     m.Phone,
		Subject:   m.Subject,
		Message:   m.Body,
		Status:    m.Status,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return errx.Wrap(err, "failed to create contact message", errx.TypeInternal)
	}
	return nil
}

func (r *MongoContactRepository) List(ctx context.Context) ([]contact.Message, error) {
	cur, err := r.coll.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
	if err != nil {
		return nil, errx.Wrap(err, "failed to list contact messages", errx.TypeInternal)
	}
	defer cur.Close(ctx)

	var docs []contactDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errx.Wrap(err, "failed to decode contact messages", errx.TypeInternal)
	}
	out := make([]contact.Message, 0, len(docs))
	for i := range docs {
		out = append(out, docs[i].toEntity())
	}
	return out, nil
}

func (r *MongoContactRepository) GetByID(ctx context.Context, id kernel.ContactID) (*contact.Message, error) {
	var doc contactDocument
	if err := r.coll.FindOne(ctx, idFilter(string(id))).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, contact.ErrNotFound().WithDetail("id", id)
		}
		return nil, errx.Wrap(err, "failed to get contact message", errx.TypeInternal)
	}
	m := doc.toEntity()
	return &m, nil
}

func (r *MongoContactRepository) Update(ctx context.Context, id kernel.ContactID, fields contact.UpdateFields, at time.Time) error {
	set := bson.M{"updatedAt": at}
	if fields.FullName != nil {
		set["fullName"] = *fields.FullName
	}
	if fields.Email != nil {
		set["email"] = *fields.Email
	}
	if fields.Phone != nil {
		set["phone"] = *fields.Phone
	}
	if fields.Subject != nil {
		set["subject"] = *fields.Subject
	}
	if fields.Message != nil {
		set["message"] = *fields.Message
	}

	res, err := r.coll.UpdateOne(ctx, idFilter(string(id)), bson.M{"$set": set})
	if err != nil {
		return errx.Wrap(err, "failed to update contact message", errx.TypeInternal)
	}
	if res.MatchedCount == 0 {
		return contact.ErrNotFound().WithDetail("id", id)
	}
	return nil
}

func (r *MongoContactRepository) SetStatus(ctx context.Context, id kernel.ContactID, status string) error {
	res, err := r.coll.UpdateOne(ctx, idFilter(string(id)), bson.M{"$set": bson.M{"status": status}})
	if err != nil {
		return errx.Wrap(err, "failed to update contact status", errx.TypeInternal)
	}
	if res.MatchedCount == 0 {
		return contact.ErrNotFound().WithDetail("id", id)
	}
	return nil
}

// idFilter matches both string ids and the ObjectIds Mongo assigned to
// documents inserted by earlier clients. ObjectIds decode into the string
// ID field as hex.
func idFilter(id string) bson.M {
	if oid, err := primitive.ObjectIDFromHex(id); err == nil {
		return bson.M{"_id": bson.M{"$in": bson.A{oid, id}}}
	}
	return bson.M{"_id": id}
}
