package candidacyinfra

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/youssef9656/server/pkg/errx"
	"github.com/youssef9656/server/pkg/kernel"
	"github.com/youssef9656/server/recruitment/candidacy"
	"github.com/youssef9656/server/recruitment/resume"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// candidacyDocument keeps the field names the admin console already reads.
// Older documents carry an ObjectId _id, see idFilter.
type candidacyDocument struct {
	ID             string     `bson:"_id"`
	LastName       string     `bson:"nom"`
	FirstName      string     `bson:"prenom"`
	Email          string     `bson:"email"`
	Phone          string     `bson:"telephone"`
	BirthDate      string     `bson:"dateNaissance"`
	Nationality    string     `bson:"nationalite"`
	Degrees        string     `bson:"diplomes"`
	CurrentJob     *string    `bson:"emploiActuel"`
	Domains        []string   `bson:"domainesIntervention"`
	Experience     string     `bson:"experiencesProfessionnelles"`
	CVFileName     string     `bson:"cvFileName"`
	CVPath         string     `bson:"cvPath"`
	CVOriginalName string     `bson:"cvOriginalName"`
	CVSize         int64      `bson:"cvSize"`
	CVMimeType     string     `bson:"cvMimeType"`
	Status         string     `bson:"statut"`
	CreatedAt      time.Time  `bson:"dateCreation"`
	UpdatedAt      *time.Time `bson:"dateModification"`
	EmailsSent     int        `bson:"emailsEnvoyes"`
	LastEmailAt    *time.Time `bson:"dernierEmailEnvoye"`
	LastMessage    *string    `bson:"dernierMessageEnvoye,omitempty"`
}

func toDocument(c *candidacy.Candidacy) candidacyDocument {
	domains := c.Domains
	if domains == nil {
		domains = []string{}
	}
	return candidacyDocument{
		ID:             string(c.ID),
		LastName:       c.LastName,
		FirstName:      c.FirstName,
		Email:          string(c.Email),
		Phone:          c.Phone,
		BirthDate:      c.BirthDate,
		Nationality:    c.Nationality,
		Degrees:        c.Degrees,
		CurrentJob:     c.CurrentJob,
		Domains:        domains,
		Experience:     c.Experience,
		CVFileName:     string(c.FileName),
		CVPath:         c.Path,
		CVOriginalName: c.OriginalName,
		CVSize:         c.Size,
		CVMimeType:     c.MimeType,
		Status:         string(c.Status),
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
		EmailsSent:     c.EmailsSent,
		LastEmailAt:    c.LastEmailAt,
		LastMessage:    c.LastMessage,
	}
}

func (d *candidacyDocument) toEntity() *candidacy.Candidacy {
	domains := d.Domains
	if domains == nil {
		domains = []string{}
	}
	return &candidacy.Candidacy{
		ID:          kernel.CandidacyID(d.ID),
		LastName:    d.LastName,
		FirstName:   d.FirstName,
		Email:       kernel.Email(d.Email),
		Phone:       d.Phone,
		BirthDate:   d.BirthDate,
		Nationality: d.Nationality,
		Degrees:     d.Degrees,
		CurrentJob:  d.CurrentJob,
		Domains:     domains,
		Experience:  d.Experience,
		Attachment: resume.Attachment{
			FileName:     kernel.FileName(d.CVFileName),
			Path:         d.CVPath,
			OriginalName: d.CVOriginalName,
			Size:         d.CVSize,
			MimeType:     d.CVMimeType,
		},
		Status:      candidacy.Status(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
		EmailsSent:  d.EmailsSent,
		LastEmailAt: d.LastEmailAt,
		LastMessage: d.LastMessage,
	}
}

type MongoCandidacyRepository struct {
	coll *mongo.Collection
}

func NewMongoCandidacyRepository(db *mongo.Database) *MongoCandidacyRepository {
	return &MongoCandidacyRepository{coll: db.Collection("candidatures")}
}

func (r *MongoCandidacyRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "dateCreation", Value: -1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create candidatures indexes: %w", err)
	}
	return nil
}

func (r *MongoCandidacyRepository) FindByEmail(ctx context.Context, email kernel.Email) (*candidacy.Candidacy, error) {
	var doc candidacyDocument
	if err := r.coll.FindOne(ctx, bson.M{"email": string(email)}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, errx.Wrap(err, "failed to look up candidacy by email", errx.TypeInternal)
	}
	return doc.toEntity(), nil
}

func (r *MongoCandidacyRepository) Create(ctx context.Context, c *candidacy.Candidacy) error {
	if _, err := r.coll.InsertOne(ctx, toDocument(c)); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return candidacy.ErrEmailExists()
		}
		return errx.Wrap(err, "failed to create candidacy", errx.TypeInternal)
	}
	return nil
}

func (r *MongoCandidacyRepository) GetByID(ctx context.Context, id kernel.CandidacyID) (*candidacy.Candidacy, error) {
	var doc candidacyDocument
	if err := r.coll.FindOne(ctx, idFilter(string(id))).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, candidacy.ErrNotFound().WithDetail("id", id)
		}
		return nil, errx.Wrap(err, "failed to get candidacy", errx.TypeInternal)
	}
	return doc.toEntity(), nil
}

func filterDocument(filter candidacy.ListFilter) bson.M {
	q := bson.M{}
	if filter.Status != "" {
		q["statut"] = string(filter.Status)
	}
	if filter.Nationality != "" {
		q["nationalite"] = filter.Nationality
	}
	return q
}

func (r *MongoCandidacyRepository) List(ctx context.Context, filter candidacy.ListFilter, opts kernel.PaginationOptions) (*kernel.Paginated[candidacy.Candidacy], error) {
	opts = opts.Normalize()
	q := filterDocument(filter)

	total, err := r.coll.CountDocuments(ctx, q)
	if err != nil {
		return nil, errx.Wrap(err, "failed to count candidacies", errx.TypeInternal)
	}

	findOpts := options.Find().
		SetSort(bson.D{{Key: "dateCreation", Value: -1}}).
		SetSkip(int64(opts.Offset())).
		SetLimit(int64(opts.PageSize))

	items, err := r.find(ctx, q, findOpts)
	if err != nil {
		return nil, err
	}
	return kernel.NewPaginated(items, opts, int(total)), nil
}

func (r *MongoCandidacyRepository) ListAll(ctx context.Context, filter candidacy.ListFilter) ([]candidacy.Candidacy, error) {
	return r.find(ctx, filterDocument(filter), options.Find().SetSort(bson.D{{Key: "dateCreation", Value: -1}}))
}

func (r *MongoCandidacyRepository) find(ctx context.Context, q bson.M, opts *options.FindOptions) ([]candidacy.Candidacy, error) {
	cur, err := r.coll.Find(ctx, q, opts)
	if err != nil {
		return nil, errx.Wrap(err, "failed to list candidacies", errx.TypeInternal)
	}
	defer cur.Close(ctx)

	var docs []candidacyDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, errx.Wrap(err, "failed to decode candidacies", errx.TypeInternal)
	}
	out := make([]candidacy.Candidacy, 0, len(docs))
	for i := range docs {
		out = append(out, *docs[i].toEntity())
	}
	return out, nil
}

func (r *MongoCandidacyRepository) UpdateStatus(ctx context.Context, id kernel.CandidacyID, status candidacy.Status, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		idFilter(string(id)),
		bson.M{"$set": bson.M{"statut": string(status), "dateModification": at}},
	)
	if err != nil {
		return errx.Wrap(err, "failed to update candidacy status", errx.TypeInternal)
	}
	if res.MatchedCount == 0 {
		return candidacy.ErrNotFound().WithDetail("id", id)
	}
	return nil
}

func (r *MongoCandidacyRepository) Delete(ctx context.Context, id kernel.CandidacyID) (*candidacy.Candidacy, error) {
	var doc candidacyDocument
	if err := r.coll.FindOneAndDelete(ctx, idFilter(string(id))).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, candidacy.ErrNotFound().WithDetail("id", id)
		}
		return nil, errx.Wrap(err, "failed to delete candidacy", errx.TypeInternal)
	}
	return doc.toEntity(), nil
}

func (r *MongoCandidacyRepository) IncrementEmailCount(ctx context.Context, email kernel.Email, message string, at time.Time) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"email": string(email)},
		bson.M{
			"$inc": bson.M{"emailsEnvoyes": 1},
			"$set": bson.M{"dernierEmailEnvoye": at, "dernierMessageEnvoye": message},
		},
	)
	if err != nil {
		return errx.Wrap(err, "failed to record sent email", errx.TypeInternal)
	}
	if res.MatchedCount == 0 {
		return candidacy.ErrNotFound().WithDetail("email", email)
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
