// Package composer turns resolved panel analyses into narration text in
// audio description style: present tense, third person, no references to
// the panel medium. Characters get one full introduction and are named
// thereafter.
package composer
