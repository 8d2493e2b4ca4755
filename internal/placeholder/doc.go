// Package placeholder renders templates by rewriting %token% placeholders.
//
// Each token is resolved once, first match wins:
//
//  1. %animation_<id>%   current frame of a loaded animation
//  2. %placeholder_<id>% runtime unary registration, then config-defined
//     resolvers (conditional and scripted placeholders)
//  3. %rel_<id>%         runtime relational registration, only when the
//     render has a viewer/target pair
//  4. anything else      the AttributeSource, post-processed by any
//     configured value replacement for that token
//
// Unresolved tokens render as the empty string. Resolved text is never
// rescanned, so a value containing %token% syntax is emitted verbatim.
package placeholder
