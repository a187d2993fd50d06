// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package roster

import "hash/fnv"

// quotePool is a fixed pool of teacher feedback sentences. This is a
// stand-in generator until real teacher feedback is sourced; selection is
// deterministic so a student always receives the same quote.
var quotePool = []string{
	"Shows excellent problem-solving skills",
	"Very engaged during class discussions",
	"Needs to work on completing assignments on time",
	"Demonstrates strong analytical thinking",
}

// TeacherQuote returns the pool sentence for a student identifier. Pure:
// the same identifier always maps to the same quote.
func TeacherQuote(studentID string) string {
	h := fnv.New32a()
	h.Write([]byte(studentID))
	return quotePool[h.Sum32()%uint32(len(quotePool))]
}
