package sqlinline

const QCreateSchema = `--sql 3b6f9d21-8c4e-4a07-9f15-e2d0a7c84b36
create table if not exists platform_profiles (
    platform text primary key,
    profile jsonb not null,
    updated_at timestamptz not null default now()
);
create table if not exists review_sessions (
    id uuid primary key,
    platform text not null,
    payload jsonb not null,
    created_at timestamptz not null default now(),
    updated_at timestamptz not null default now()
);
`
