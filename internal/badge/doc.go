// Package badge renders the two-segment SVG coverage badge.
//
// The layout follows the common flat badge style: a dark gray label
// segment, a colored value segment, a light gradient overlay and rounded
// corners. Text widths are estimated from the character count rather than
// measured from font metrics, and every text element carries a textLength
// hint so viewers with different fonts still fit the text to its segment.
package badge
