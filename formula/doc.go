// Package formula implements parsing and evaluation of gettext plural formulas,
// the expressions found in the Plural-Forms header of a catalog:
//
//	nplurals=3; plural=(n%10==1 && n%100!=11 ? 0 : n%10>=2 && n%10<=4 && (n%100<10 || n%100>=20) ? 1 : 2);
//
// Formulas are compiled once into a small expression tree. The most common
// formulas are recognized and served by native Go functions instead.
package formula
