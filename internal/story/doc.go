// Package story holds the narrative domain model: the evolving story
// context, tracked characters and scenes, per-panel visual analyses, and
// the narration text produced from them.
//
// The context is the pipeline's working memory. Each analyzed panel folds
// new observations into it so later panels can refer to characters and
// locations that were established earlier.
package story
