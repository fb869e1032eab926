package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"

	"github.com/step2this/social-media-app-sub011/configs"
	"github.com/step2this/social-media-app-sub011/internal/cdc"
	"github.com/step2this/social-media-app-sub011/internal/counters"
	"github.com/step2this/social-media-app-sub011/internal/followers"
	"github.com/step2this/social-media-app-sub011/internal/migrate"
	"github.com/step2this/social-media-app-sub011/pkg/db"
)

// Seeds a synthetic follow graph into Postgres and produces matching
// post/reaction change records onto the stream topic, for local soak
// testing of the fan-out engine.
func main() {
	authors := flag.Int("authors", 5, "number of authors to create")
	followersPer := flag.Int("followers", 50, "followers per author")
	postsPer := flag.Int("posts", 3, "posts per author")
	likesPer := flag.Int("likes", 10, "likes per post")
	flag.Parse()

	gofakeit.Seed(time.Now().UnixNano())
	cfg := configs.LoadConfig()
	ctx := context.Background()

	conn, err := db.NewDb(cfg)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	if err := migrate.AutoMigrateAll(conn.DB); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	w := &kafka.Writer{
		Addr:         kafka.TCP(cfg.KafkaBootstrap),
		Topic:        cfg.StreamTopic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 50 * time.Millisecond,
	}
	defer func() { _ = w.Close() }()

	seq := 0
	produce := func(rec cdc.RawRecord) {
		seq++
		rec.SequenceToken = fmt.Sprintf("seed-%d", seq)
		b, _ := json.Marshal(rec)
		if err := w.WriteMessages(ctx, kafka.Message{Key: []byte(rec.Entity), Value: b}); err != nil {
			log.Printf("seed: produce failed: %v", err)
		}
	}

	for a := 0; a < *authors; a++ {
		authorID := uuid.NewString()
		handle := gofakeit.Username()

		for f := 0; f < *followersPer; f++ {
			follow := followers.Follow{
				FollowerID: uuid.NewString(),
				FolloweeID: authorID,
				CreatedAt:  time.Now(),
			}
			if err := conn.DB.Create(&follow).Error; err != nil {
				log.Printf("seed: follow insert failed: %v", err)
			}
		}

		for p := 0; p < *postsPer; p++ {
			createdAt := time.Now().Add(-time.Duration(gofakeit.Number(0, 86400)) * time.Second)
			post := counters.Post{
				ID:           uuid.NewString(),
				AuthorID:     authorID,
				LocationKey:  fmt.Sprintf("POST#%d", createdAt.UnixMilli()),
				AuthorHandle: handle,
				Caption:      gofakeit.Sentence(8),
				ImageURL:     gofakeit.URL(),
				CreatedAt:    createdAt,
			}
			if err := conn.DB.Create(&post).Error; err != nil {
				log.Printf("seed: post insert failed: %v", err)
				continue
			}

			after, _ := json.Marshal(cdc.PostSnapshot{
				ID:           post.ID,
				AuthorID:     post.AuthorID,
				AuthorHandle: post.AuthorHandle,
				Caption:      post.Caption,
				ImageURL:     post.ImageURL,
				CreatedAt:    post.CreatedAt,
			})
			produce(cdc.RawRecord{EventName: cdc.EventInsert, Entity: cdc.EntityPosts, After: after})

			for l := 0; l < *likesPer; l++ {
				image, _ := json.Marshal(cdc.ReactionSnapshot{
					ActorID:         uuid.NewString(),
					PostID:          post.ID,
					PostOwnerID:     post.AuthorID,
					PostLocationKey: post.LocationKey,
					CreatedAt:       time.Now(),
				})
				produce(cdc.RawRecord{EventName: cdc.EventInsert, Entity: cdc.EntityLikes, After: image})
				// Occasionally take a like back.
				if gofakeit.Number(0, 4) == 0 {
					produce(cdc.RawRecord{EventName: cdc.EventRemove, Entity: cdc.EntityLikes, Before: image})
				}
			}
		}
		log.Printf("seed: author %s done followers=%d posts=%d", handle, *followersPer, *postsPer)
	}

	log.Printf("seed: produced %d change records to %s", seq, cfg.StreamTopic)
}
