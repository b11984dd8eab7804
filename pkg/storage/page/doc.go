// Package page defines the on-disk page layout shared by every storage
// engine on top of it: fixed-size 4 KB pages, read and written as atomic
// units, each starting with a fixed header (page ID, LSN, flags) followed by
// a slot directory that grows downward from the end of the page toward the
// centre while tuple data is packed from the start toward the centre. Pages
// are never partially written; the WAL ensures durability.
//
// [ridgebase/pkg/storage/heap] builds an unordered heap file on top of this
// layout, supporting sequential scans and free-space management.
// [ridgebase/pkg/storage/index] builds ordered and hashed index structures
// on the same page format.
package page
