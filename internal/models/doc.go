// Package models defines the core domain models for splitter.
//
// # Models
//
//   - Bill: a shared expense record; owns items, fees and a derived total
//   - Item: a quantity-priced purchased entry on a bill
//   - Fee: a flat-priced surcharge entry on a bill (tip, delivery, tax)
//
// # Design principles
//
//  1. Entity identities are UUID strings assigned by the remote service; an
//     entry does not exist locally before the service has confirmed it.
//  2. All amounts use money.Money (integer cents). Floats never touch
//     bill arithmetic.
//  3. Relationships use ID strings instead of pointers to avoid circular
//     references between bills and their entries.
//
// Person assignment of items is intentionally absent for now; entries carry
// only a description and amounts.
package models
