package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"

	"github.com/swaggest/openapi-go/openapi31"

	"github.com/fleetwire/fleetwire/internal/deliveries"
	"github.com/fleetwire/fleetwire/internal/openapi"
	"github.com/fleetwire/fleetwire/internal/webhooks"
)

// Provider callbacks are authenticated by signature and stay undocumented.
var schemas = []func(*openapi31.Reflector){
	webhooks.RegisterEventsSchema,
	deliveries.RegisterHistorySchema,
	deliveries.RegisterFailedSchema,
}

func main() {
	out := flag.String("out", "openapi.json", "output file")
	flag.Parse()

	reflector := openapi.NewReflector()
	for _, register := range schemas {
		register(reflector)
	}

	data, err := json.MarshalIndent(reflector.Spec, "", "  ")
	if err != nil {
		log.Fatalf("marshal openapi document: %v", err)
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatalf("write %s: %v", *out, err)
	}
	log.Printf("generated %s", *out)
}
