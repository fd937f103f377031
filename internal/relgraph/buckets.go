package relgraph

// Bucket is a curated grouping of domain tags used as a weak similarity
// signal.
type Bucket string

const (
	BucketSustainability Bucket = "sustainability"
	BucketInnovation     Bucket = "innovation"
	BucketStage          Bucket = "stage"
	BucketAudience       Bucket = "audience"
)

// bucketOrder fixes the iteration order so reason text is reproducible.
var bucketOrder = []Bucket{BucketSustainability, BucketInnovation, BucketStage, BucketAudience}

var bucketTags = map[Bucket]map[string]bool{
	BucketSustainability: set(
		"sustainability", "circular-economy", "circularity", "ecodesign",
		"climate", "climate-action", "carbon", "decarbonisation", "renewable-energy",
		"biodiversity", "life-cycle", "lca", "waste-reduction", "sdg", "sdgs",
		"regenerative", "green", "environment", "social-impact",
	),
	BucketInnovation: set(
		"innovation", "social-innovation", "product-innovation", "open-innovation",
		"business-model", "business-model-innovation", "service-design",
		"design-thinking", "digital", "technology", "co-creation", "systems-thinking",
	),
	BucketStage: set(
		"ideation", "validation", "prototyping", "launch", "growth", "scaling",
		"early-stage", "pre-seed", "seed", "market-entry", "pivot",
	),
	BucketAudience: set(
		"students", "entrepreneurs", "startups", "smes", "corporates",
		"educators", "policymakers", "researchers", "investors", "founders",
		"intrapreneurs", "nonprofits",
	),
}

func set(items ...string) map[string]bool {
	m := make(map[string]bool, len(items))
	for _, it := range items {
		m[it] = true
	}
	return m
}

// Buckets returns the buckets any of the given tags belong to, in fixed
// bucket order.
func Buckets(tags []string) []Bucket {
	var out []Bucket
	for _, b := range bucketOrder {
		members := bucketTags[b]
		for _, t := range tags {
			if members[t] {
				out = append(out, b)
				break
			}
		}
	}
	return out
}
