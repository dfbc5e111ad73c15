// Package cloudtranslate provides a validated, cached façade over a
// machine-translation backend such as Google Cloud Translation.
//
// The façade checks options (language codes, text format, model), enforces a
// cost-control policy ("cheapskate mode") that rejects overly long inputs,
// memoizes backend responses in a key-value cache and forwards calls to the
// configured backend.
//
// Basic usage:
//
//	import (
//	    "context"
//	    "github.com/ZaguanLabs/cloudtranslate"
//	    "github.com/ZaguanLabs/cloudtranslate/backend"
//	    "github.com/ZaguanLabs/cloudtranslate/cache"
//	)
//
//	func main() {
//	    ctx := context.Background()
//
//	    t, err := cloudtranslate.New(ctx, cloudtranslate.Options{
//	        "projectId": "my-project",
//	        "key":       os.Getenv("GOOGLE_API_KEY"),
//	        "source":    "en",
//	        "target":    "de",
//	    }, backend.NewGoogle, cloudtranslate.WithCache(cache.NewInMemoryCache()))
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//
//	    result, err := t.Translate(ctx, "Hello World")
//	    if err != nil {
//	        log.Fatal(err)
//	    }
//	    fmt.Println(result.Text) // Hallo Welt
//	}
package cloudtranslate
