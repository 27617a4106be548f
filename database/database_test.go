package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"influencia-backend/models"
	"influencia-backend/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestPing_clientNil(t *testing.T) {
	var store *Store
	err := store.Ping(context.Background())
	if err == nil {
		t.Fatal("Ping() devrait échouer quand Client est nil")
	}
	if err.Error() != "client MongoDB non initialisé" {
		t.Errorf("Ping() erreur = %v", err)
	}

	if err := (&Store{}).Ping(context.Background()); err == nil {
		t.Error("Ping() devrait échouer sur un Store vide")
	}
}

func TestClose_clientNil(t *testing.T) {
	var store *Store
	if err := store.Close(); err != nil {
		t.Errorf("Close() erreur = %v", err)
	}
}

func TestWrapWriteError(t *testing.T) {
	if wrapWriteError("insert", nil) != nil {
		t.Error("wrapWriteError(nil) doit renvoyer nil")
	}

	dup := mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key"}}}
	if err := wrapWriteError("insert", dup); !errors.Is(err, ErrDuplicate) {
		t.Errorf("une erreur E11000 doit devenir ErrDuplicate, got %v", err)
	}

	other := errors.New("connexion perdue")
	err := wrapWriteError("insert", other)
	if errors.Is(err, ErrDuplicate) || !errors.Is(err, other) {
		t.Errorf("erreur inattendue: %v", err)
	}
}

func TestRegistrationFilterQuery(t *testing.T) {
	yes := true
	q := registrationFilterQuery(models.RegistrationFilter{Attended: &yes, PaymentStatus: "confirmed", Search: "a.b"})

	if q["attended"] != true {
		t.Errorf("attended = %v", q["attended"])
	}
	if q["paymentStatus"] != "confirmed" {
		t.Errorf("paymentStatus = %v", q["paymentStatus"])
	}
	if _, ok := q["$or"]; !ok {
		t.Error("la recherche doit produire un $or")
	}
	if _, ok := q["ticketType"]; ok {
		t.Error("ticketType vide ne doit pas filtrer")
	}
}

func TestRegistrationFilterQuery_dateRange(t *testing.T) {
	from := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	q := registrationFilterQuery(models.RegistrationFilter{From: &from})

	created, ok := q["createdAt"].(bson.M)
	if !ok {
		t.Fatalf("createdAt = %v", q["createdAt"])
	}
	if created[BSONGte] != from {
		t.Errorf("$gte = %v", created[BSONGte])
	}
	if _, ok := created[BSONLt]; ok {
		t.Error("pas de borne haute sans To")
	}
}

func TestTicketFilter(t *testing.T) {
	id := primitive.NewObjectID()

	qr := ticketFilter(utils.GenerateQRCode(id))
	if _, ok := qr[BSONOr]; ok {
		t.Error("un e-pass se cherche uniquement par qrCode")
	}
	if qr["qrCode"] != utils.GenerateQRCode(id) {
		t.Errorf("qrCode = %v", qr["qrCode"])
	}

	byID := ticketFilter(id.Hex())
	or, ok := byID[BSONOr].(bson.A)
	if !ok || len(or) != 2 {
		t.Errorf("un ID doit chercher par qrCode ou _id: %v", byID[BSONOr])
	}

	other := ticketFilter("n'importe quoi")
	if or, _ := other[BSONOr].(bson.A); len(or) != 1 {
		t.Errorf("une valeur libre ne cherche que par qrCode: %v", other[BSONOr])
	}
}
